package timer

import (
	"github.com/vnykmshr/taskflow/pkg/common/errors"
	"github.com/vnykmshr/taskflow/pkg/common/validation"
)

// AddCronTimer registers a repeating timer whose deadlines come from a cron
// expression evaluated in Config.Location.
//
// Expressions have six fields, seconds first:
//
//	"*/5 * * * * *"   every five seconds
//	"0 30 9 * * 1-5"  09:30 on weekdays
//	"@every 1m30s"    fixed delay
//	"@daily"          midnight
func (c *Container) AddCronTimer(cb Callback, arg any, spec string) (TimerID, error) {
	if cb == nil {
		return 0, validation.ValidateNotNil("timer", "callback", nil)
	}
	if err := validation.ValidateNotEmpty("timer", "cron", spec); err != nil {
		return 0, err
	}

	schedule, err := c.parser.Parse(spec)
	if err != nil {
		return 0, errors.NewValidationError("timer", "cron", spec, err.Error()).
			WithHint("use six fields with seconds first, or a descriptor such as @every 5s")
	}

	return c.add(&item{
		callback: cb,
		arg:      arg,
		repeated: true,
		schedule: schedule,
		spec:     spec,
	})
}
