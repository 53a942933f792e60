package timezone_test

import (
	"testing"
	"time"

	"albumsync/shared/timezone"
)

func TestTimezoneBeforeInit(t *testing.T) {
	if timezone.Location() == nil {
		t.Error("Location() returned nil")
	}

	if timezone.Now().IsZero() {
		t.Error("Now() returned zero time")
	}
}

func TestTimezoneInit(t *testing.T) {
	tests := []struct {
		name string
		zone string
		want string
	}{
		{name: "empty defaults to UTC", zone: "", want: "UTC"},
		{name: "unknown falls back to UTC", zone: "Mars/Olympus", want: "UTC"},
		{name: "fixed utc", zone: "UTC", want: "UTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timezone.Init(tt.zone)

			if got := timezone.Location().String(); got != tt.want {
				t.Errorf("Location() = %s, want %s", got, tt.want)
			}

			converted := timezone.ToAppTime(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
			if converted.Location().String() != tt.want {
				t.Errorf("ToAppTime() location = %s, want %s", converted.Location(), tt.want)
			}
		})
	}
}
