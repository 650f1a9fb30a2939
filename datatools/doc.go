// Package datatools implements the analysis operations the agent can
// invoke: ingestion from Excel and SQL, cleaning, summary statistics,
// correlations, plotting, and report generation. Every operation works on
// the frame.Frame dataset handle and follows the loop's operation
// signature, returning a result plus the observation text fed back to the
// model.
package datatools
