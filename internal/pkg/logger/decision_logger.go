package logger

// DecisionLogger records every AI verdict (router, planner, choice
// interpretation) to the isolated AI log so the main application log stays
// readable while the full decision trail remains auditable.
type DecisionLogger struct {
	log ILogger
}

func NewDecisionLogger(log ILogger) *DecisionLogger {
	return &DecisionLogger{log: log}
}

// Decision logs a single verdict. confidence is the raw model score;
// accepted reports whether the gate let the decision through.
func (d *DecisionLogger) Decision(module, sessionID, verdict string, confidence float64, accepted bool, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	details["session_id"] = sessionID
	details["verdict"] = verdict
	details["confidence"] = confidence
	details["accepted"] = accepted
	d.log.Info(module, "ai decision", details)
}

// Fallback logs a decision path that degraded to the rule-based branch.
func (d *DecisionLogger) Fallback(module, sessionID, reason string, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	details["session_id"] = sessionID
	details["reason"] = reason
	d.log.Warn(module, "ai fallback", details)
}
