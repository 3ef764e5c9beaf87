package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	cloudapps "github.com/cd1zz/defender-for-cloud-apps-api-client"
)

var (
	activityDays  int
	activityUser  string
	activityLimit int
)

var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "List cloud-app activities",
	RunE:  runActivities,
}

func init() {
	activitiesCmd.Flags().IntVarP(&activityDays, "days", "d", 7, "look back this many days")
	activitiesCmd.Flags().StringVarP(&activityUser, "user", "u", "", "filter by username")
	activitiesCmd.Flags().IntVarP(&activityLimit, "limit", "n", 25, "maximum activities to show")
}

func runActivities(cmd *cobra.Command, args []string) error {
	builder := cloudapps.NewFilterBuilder().
		GreaterThanOrEqual("date", cloudapps.DaysAgoMillis(activityDays))
	if activityUser != "" {
		builder.Equals("user.username", activityUser)
	}

	logger.Debug().Int("days", activityDays).Str("user", activityUser).Msg("listing activities")

	activities, err := cloudapps.CollectN(
		client.Activities.All(cmd.Context(), builder.Build(), 100),
		activityLimit,
	)
	if err != nil {
		return err
	}

	if len(activities) == 0 {
		fmt.Println("No activities found.")
		return nil
	}

	fmt.Printf("Found %d activities:\n", len(activities))
	fmt.Println(strings.Repeat("-", 80))
	for _, activity := range activities {
		fmt.Printf("• %s  %s  %s@%s",
			cloudapps.FromMillis(activity.Timestamp).Format("2006-01-02 15:04:05"),
			activity.EventActionType,
			activity.User.Username,
			activity.AppName)
		if activity.Location.Country != "" {
			fmt.Printf("  (%s)", activity.Location.Country)
		}
		fmt.Println()
	}

	return nil
}
