// Package timezone stamps engine state in the application timezone.
//
//	timezone.Init(cfg.App.Timezone)
//	now := timezone.Now()
//
// The timezone comes from APP_TIMEZONE and must be an IANA name such as "UTC" or
// "Europe/London". Until Init runs every helper works in UTC.
package timezone
