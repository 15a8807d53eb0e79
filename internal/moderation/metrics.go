package moderation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var messagesValidated = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_messages_validated",
	Help: "Number of messages validated, by outcome",
}, []string{"outcome"})

var findingsDetected = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_findings_detected",
	Help: "Number of violation findings produced by detectors",
}, []string{"type"})

var punishmentsIssued = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_punishments_issued",
	Help: "Number of automated punishments issued",
}, []string{"type"})

var persistenceErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_persistence_errors",
	Help: "Number of store failures absorbed by the pipeline",
}, []string{"stage"})
