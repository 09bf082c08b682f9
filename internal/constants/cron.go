package constants

import "github.com/robfig/cron/v3"

// Cron constants for the load generator schedule.

// CronParseOptions accepts an optional seconds field and descriptors like @every.
const CronParseOptions = cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor

// CronBurstIDFormat is the format string used to label scheduled bursts.
const CronBurstIDFormat = "burst_%d"
