// Package app wires configuration, logging, telemetry, the ETL pipeline and
// the HTTP surface of the mortality dashboard into one Application.
//
// # Initialization Flow
//
//  1. Load configuration from defaults, an optional YAML file and MORT_* variables
//  2. Initialize logging and OpenTelemetry
//  3. Run the pipeline once; a missing required workbook aborts startup
//  4. Create the dashboard and health services over the dataset
//  5. Mount middleware, API routes, the page and /metrics
//  6. Create the HTTP server
//
// # Usage
//
//	app, err := app.NewApplication(frontendFS)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Run blocks until SIGINT or SIGTERM, then shuts the server and telemetry
// providers down within the configured shutdown timeout. Initialization
// errors are returned, never handled with os.Exit.
package app
