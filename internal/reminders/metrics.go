package reminders

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	remindersScheduled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rerange_reminders_scheduled_total",
		Help: "Reminders armed, including re-arms after a task update",
	})

	remindersCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rerange_reminders_cancelled_total",
		Help: "Pending reminders cancelled before firing",
	})

	remindersFired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rerange_reminders_fired_total",
		Help: "Reminders that reached their fire time and notified",
	})

	remindersPending = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rerange_reminders_pending",
		Help: "Reminders currently armed",
	})
)
