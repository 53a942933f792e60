package device_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"albumsync/config"
	"albumsync/infras/device"
)

func TestCapability_Request(t *testing.T) {
	tests := []struct {
		name        string
		initial     bool
		prompt      device.Prompter
		wantGranted bool
		wantErr     bool
	}{
		{
			name:        "already granted",
			initial:     true,
			wantGranted: true,
		},
		{
			name:        "no prompter",
			wantGranted: false,
		},
		{
			name:        "prompt accepted",
			prompt:      func(context.Context) (bool, error) { return true, nil },
			wantGranted: true,
		},
		{
			name:        "prompt declined",
			prompt:      func(context.Context) (bool, error) { return false, nil },
			wantGranted: false,
		},
		{
			name:    "prompt failed",
			prompt:  func(context.Context) (bool, error) { return false, errors.New("dialog closed") },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Device.PermissionGranted = tt.initial

			capability := device.NewCapability(cfg)
			capability.SetPrompter(tt.prompt)

			granted, err := capability.Request(context.Background())
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantGranted, granted)
			assert.Equal(t, tt.wantGranted, capability.Granted())
		})
	}
}

func TestCapability_NoPromptAfterDenial(t *testing.T) {
	prompts := 0

	capability := device.NewCapability(&config.Config{})
	capability.SetPrompter(func(context.Context) (bool, error) {
		prompts++

		return false, nil
	})

	for range 3 {
		granted, err := capability.Request(context.Background())
		assert.NoError(t, err)
		assert.False(t, granted)
	}

	assert.Equal(t, 1, prompts)
}

func TestCapability_Revoke(t *testing.T) {
	cfg := &config.Config{}
	cfg.Device.PermissionGranted = true

	capability := device.NewCapability(cfg)
	capability.SetPrompter(func(context.Context) (bool, error) { return true, nil })

	capability.Revoke()
	assert.False(t, capability.Granted())

	granted, _ := capability.Request(context.Background())
	assert.False(t, granted)

	capability.Grant()
	assert.True(t, capability.Granted())
}
