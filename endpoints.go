package cloudapps

// API endpoint paths, relative to the tenant base URL. Detail paths are
// fmt templates taking a path-escaped identifier.
const (
	activitiesListPath   = "/v1/activities/"
	activityDetailPath   = "/v1/activities/%s/"
	activityFeedbackPath = "/v1/activities/%s/feedback/"

	alertsListPath              = "/v1/alerts/"
	alertDetailPath             = "/v1/alerts/%s/"
	alertCloseBenignPath        = "/v1/alerts/%s/close_benign/"
	alertCloseFalsePositivePath = "/v1/alerts/%s/close_false_positive/"
	alertCloseTruePositivePath  = "/v1/alerts/%s/close_true_positive/"
	alertMarkReadPath           = "/v1/alerts/%s/read/"
	alertMarkUnreadPath         = "/v1/alerts/%s/unread/"

	filesListPath  = "/v1/files/"
	fileDetailPath = "/v1/files/%s/"

	entitiesListPath = "/v1/entities"
	entityDetailPath = "/v1/entities/%s"

	discoveryStreamsPath     = "/discovery/streams/"
	discoveredAppsPath       = "/v1/discovery/discovered_apps/"
	discoveryCategoriesPath  = "/v1/discovery/discovered_apps/categories/"
	discoveryBlockScriptPath = "/discovery/block_script/"

	subnetsPath      = "/v1/subnet"
	subnetDetailPath = "/v1/subnet/%s"
)
