package jobs

// WorkflowGenerateInsights is the registered name of the insight refresh
// workflow. Producers reference it by name so they never import workflow
// code.
const WorkflowGenerateInsights = "industry/generate.insights"

// ActivityRefreshInsight is the registered name of the refresh activity
const ActivityRefreshInsight = "refresh-industry-insight"
