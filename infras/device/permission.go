package device

import (
	"context"
	"sync"

	"albumsync/config"

	"github.com/rs/zerolog/log"
)

// Permission is the media library capability gate.
type Permission interface {
	Granted() bool
	Request(ctx context.Context) (bool, error)
}

// Prompter asks the user for media library access.
type Prompter func(ctx context.Context) (bool, error)

// Capability is process-wide permission state. It starts granted or not from
// DEVICE_PERMISSION_GRANTED; Revoke tears it down mid-session. After an explicit denial
// Request answers false without prompting again.
type Capability struct {
	mu      sync.RWMutex
	granted bool
	denied  bool
	prompt  Prompter
}

func NewCapability(cfg *config.Config) *Capability {
	return &Capability{granted: cfg.Device.PermissionGranted}
}

// SetPrompter installs the prompt used by Request while access is undecided.
func (c *Capability) SetPrompter(prompt Prompter) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prompt = prompt
}

func (c *Capability) Granted() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.granted
}

func (c *Capability) Grant() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.granted = true
	c.denied = false
}

func (c *Capability) Revoke() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.granted = false
	c.denied = true

	log.Warn().Msg("media library permission revoked")
}

func (c *Capability) Request(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.granted {
		return true, nil
	}

	if c.denied || c.prompt == nil {
		return false, nil
	}

	granted, err := c.prompt(ctx)
	if err != nil {
		return false, err
	}

	c.granted = granted
	c.denied = !granted

	log.Info().Bool("granted", granted).Msg("media library permission requested")

	return granted, nil
}
