package config

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/colonyops/noticeq/pkg/tmpl"
	"github.com/hay-kot/criterio"
	"github.com/robfig/cron/v3"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// CronParser parses reminder schedules. It accepts standard five-field
// specs and descriptors such as @hourly or @every 10m.
var CronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ValidateDeep performs comprehensive validation of the configuration
// including glob patterns, cron schedules and file accessibility. The
// configPath argument specifies the config file location to validate
// (empty string skips the config file check). This calls Validate() first
// for basic structural validation.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		c.validateRules(),
		c.validateReminders(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	for i, rule := range c.Rules {
		if !rule.Drop && rule.Type == "" && rule.Persistent == nil && rule.Duration == 0 {
			warnings = append(warnings, ValidationWarning{
				Category: "Rules",
				Item:     fmt.Sprintf("rule %d", i),
				Message:  "rule matches but changes nothing",
			})
		}
	}

	for i := range c.Rules {
		for j := range i {
			if c.Rules[i].Pattern == c.Rules[j].Pattern {
				warnings = append(warnings, ValidationWarning{
					Category: "Rules",
					Item:     fmt.Sprintf("rule %d", i),
					Message:  fmt.Sprintf("unreachable: pattern %q already handled by rule %d", c.Rules[i].Pattern, j),
				})
				break
			}
		}
	}

	if a := c.Scheduler.Animations; a != nil && !*a && c.Scheduler.RemovalDelay != DefaultConfig().Scheduler.RemovalDelay {
		warnings = append(warnings, ValidationWarning{
			Category: "Scheduler",
			Item:     "removal_delay",
			Message:  "ignored while animations are disabled",
		})
	}

	return warnings
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// validateRules checks rule patterns are valid doublestar globs.
func (c *Config) validateRules() error {
	var errs criterio.FieldErrorsBuilder
	for i, rule := range c.Rules {
		if !doublestar.ValidatePattern(rule.Pattern) {
			errs = errs.Append(fmt.Sprintf("rules[%d].pattern", i), fmt.Errorf("invalid glob %q", rule.Pattern))
		}
	}
	return errs.ToError()
}

// validateReminders checks every reminder schedule and message template parses.
func (c *Config) validateReminders() error {
	var errs criterio.FieldErrorsBuilder
	for i, r := range c.Reminders {
		if _, err := CronParser.Parse(r.Schedule); err != nil {
			errs = errs.Append(fmt.Sprintf("reminders[%d].schedule", i), fmt.Errorf("invalid schedule %q: %w", r.Schedule, err))
		}
		if err := tmpl.Check(r.Message); err != nil {
			errs = errs.Append(fmt.Sprintf("reminders[%d].message", i), err)
		}
	}
	return errs.ToError()
}
