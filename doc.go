// Package evalforms provisions per-participant evaluation forms in Google Forms
// and aggregates the submitted scores.
//
// Remote access goes through the Service interface. Google implements it on top of
// the form and drive packages; evalformstest.Fake implements it in memory.
// The provision and aggregate packages hold the two batch programs that
// cmd/provision and cmd/aggregate run.
package evalforms
