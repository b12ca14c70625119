package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/noticeq/internal/core/config"
	"github.com/colonyops/noticeq/internal/core/notice"
	"github.com/colonyops/noticeq/pkg/kv"
	"github.com/colonyops/noticeq/pkg/tmpl"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Reminders raises configured notices on cron schedules. Cron fires on
// its own goroutine, so every notice is posted to the Runner.
type Reminders struct {
	cron   *cron.Cron
	target Target
	runner Runner
	router *Router
	log    zerolog.Logger
	now    func() time.Time
	fired  *kv.Store[string, int]
}

// ReminderData is the value reminder messages are rendered against.
type ReminderData struct {
	Name  string
	Time  time.Time
	Count int // times this reminder has fired, including now
}

// NewReminders registers every reminder. It fails on the first schedule
// that does not parse.
func NewReminders(reminders []config.Reminder, target Target, runner Runner, router *Router, log zerolog.Logger) (*Reminders, error) {
	r := &Reminders{
		cron:   cron.New(cron.WithParser(config.CronParser)),
		target: target,
		runner: runner,
		router: router,
		log:    log,
		now:    time.Now,
		fired:  kv.New[string, int](),
	}

	for i, rem := range reminders {
		if _, err := r.cron.AddFunc(rem.Schedule, func() { r.fire(rem) }); err != nil {
			return nil, fmt.Errorf("reminders[%d]: %w", i, err)
		}
	}

	return r, nil
}

// Len returns the number of registered reminders.
func (r *Reminders) Len() int {
	return len(r.cron.Entries())
}

// Start begins firing reminders in the background.
func (r *Reminders) Start() {
	r.cron.Start()
}

// Fired returns how often the reminder with the given source ("reminder/<name>") has fired.
func (r *Reminders) Fired(source string) int {
	n, _ := r.fired.Get(source)
	return n
}

// Stop halts the schedule. The returned context is done once any running
// reminder has finished.
func (r *Reminders) Stop() context.Context {
	return r.cron.Stop()
}

func (r *Reminders) fire(rem config.Reminder) {
	source := "reminder"
	if rem.Name != "" {
		source = "reminder/" + rem.Name
	}

	opts, ok := r.router.Route(notice.Options{
		Kind:       rem.Type,
		Persistent: rem.Persistent,
		Source:     source,
	})
	if !ok {
		return
	}

	count := r.fired.Update(source, func(n int, _ bool) int { return n + 1 })
	msg, err := tmpl.Render(rem.Message, ReminderData{Name: rem.Name, Time: r.now(), Count: count})
	if err != nil {
		r.log.Warn().Err(err).Str("source", source).Msg("reminder message did not render; showing it raw")
		msg = rem.Message
	}

	err = r.runner.Post(func() {
		r.target.ShowOptions(msg, opts)
	})
	if err != nil {
		r.log.Warn().Err(err).Str("source", source).Msg("reminder not delivered")
	}
}
