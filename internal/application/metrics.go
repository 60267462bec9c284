package application

import "time"

// Metrics receives planning measurements. *metrics.Collector implements it.
type Metrics interface {
	PlanInc()
	PlanObserve(d time.Duration)
	PathInc(strategy string)
	CandidatesObserve(kind string, n int)
	LookupErrInc(operation string)
}

type nopMetrics struct{}

func (nopMetrics) PlanInc()                      {}
func (nopMetrics) PlanObserve(time.Duration)     {}
func (nopMetrics) PathInc(string)                {}
func (nopMetrics) CandidatesObserve(string, int) {}
func (nopMetrics) LookupErrInc(string)           {}
