package hermes

const (
	// SubjectEvaluateRequest lets other services ask for a stored project to
	// be re-evaluated. The payload is an EvaluateRequestEvent.
	SubjectEvaluateRequest = "verdict.evaluate.request"

	StreamName   = "VERDICT_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

// Project lifecycle subjects
func SubjectProjectCreated(projectID string) string { return "verdict.project." + projectID + ".created" }
func SubjectProjectUpdated(projectID string) string { return "verdict.project." + projectID + ".updated" }
func SubjectProjectDeleted(projectID string) string { return "verdict.project." + projectID + ".deleted" }

// Evaluation subjects
func SubjectProjectEvaluated(projectID string) string {
	return "verdict.project." + projectID + ".evaluated"
}
func SubjectProjectInconsistent(projectID string) string {
	return "verdict.project." + projectID + ".inconsistent"
}
