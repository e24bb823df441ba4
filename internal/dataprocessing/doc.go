// Package dataprocessing turns the mortality workbooks into the immutable
// dataset behind the dashboard.
//
// # Architecture
//
// The data flows one way through five stages:
//
//  1. Loader: reads the first sheet of each workbook with excelize
//  2. Key Normalizer: builds the 5-digit composite administrative key
//  3. Merge: left-joins administrative names and cause descriptions
//  4. Derived Columns: month, age-group label and sex label
//  5. Rates: crude mortality rate per 100,000 inhabitants
//
// # Usage
//
//	pipeline := dataprocessing.NewPipeline(cfg.Analysis, cfg.Data.BoundaryFeatureKey,
//	    dataprocessing.WithLogger(logger))
//	dataset, err := pipeline.Run(ctx, paths)
//	if err != nil {
//	    // a required workbook is missing or unreadable
//	}
//
// # Error Handling
//
// A missing required workbook returns an error wrapping ErrInputMissing.
// Row-level problems never fail the load: rows with an unparseable death
// date are dropped, bad age codes get a sentinel label and join misses keep
// null names. A missing boundary document only disables the map.
package dataprocessing
