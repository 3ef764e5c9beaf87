// Package cloudapps provides a Go client for the Microsoft Defender for
// Cloud Apps REST API.
//
// Basic usage:
//
//	client, err := cloudapps.NewClient(
//	    cloudapps.WithBaseURL("https://tenant.region.portal.cloudappsecurity.com/api"),
//	    cloudapps.WithAPIToken(token),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	filters := cloudapps.NewFilterBuilder().
//	    Equals("alertOpen", true).
//	    GreaterThanOrEqual("severity", cloudapps.AlertSeverityHigh).
//	    Build()
//
//	alerts, err := client.Alerts.ListAll(ctx, filters, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, alert := range alerts {
//	    fmt.Println(alert.Title)
//	}
//
// All list endpoints accept a filter map built with FilterBuilder and are
// paginated with a skip cursor; the ListAll and All methods walk every page
// automatically. The API caps pages at 100 items, so larger limits are
// clamped before dispatch.
//
// Authentication is either a personal API token (legacy) or an OAuth2
// client-credentials triple; exactly one must be configured. Requests are
// spaced by a minimum interval (2s by default) to stay inside the API's
// rate limits, and transient failures are retried with exponential backoff
// before an error is surfaced.
package cloudapps
