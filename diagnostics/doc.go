// Package diagnostics inspects a fitted BART chain: sigma trace plots,
// rendered trees and posterior summaries.
package diagnostics
