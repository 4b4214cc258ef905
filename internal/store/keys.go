package store

// Well-known keys. Per-project data hangs off the project id.
const (
	KeyProjects       = "projects"
	KeyCurrentProject = "currentProject"
)

// BlockIndexKey is the key holding a project's indexed documents.
func BlockIndexKey(projectID string) string {
	return "block-indexes." + projectID
}

// OverallSummaryKey is the key holding a project's aggregated summary.
func OverallSummaryKey(projectID string) string {
	return "summaries." + projectID + ".overall"
}

// SummariesKey is the root of a project's summary subtree, used when
// deleting a project.
func SummariesKey(projectID string) string {
	return "summaries." + projectID
}
