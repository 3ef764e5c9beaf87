// cloudappsctl is a command-line companion for the Defender for Cloud
// Apps API: list alerts and activities, inspect shared files, and manage
// IP subnet enrichment data.
package main

func main() {
	Execute()
}
