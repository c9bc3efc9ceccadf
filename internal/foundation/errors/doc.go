// Package errors provides the classified error primitives used across knowledgelib.
//
// Errors that cross from a library component to the CLI carry a category and a
// severity so the CLI can choose an exit code and a log level without string
// matching:
//
//	err := errors.WrapError(cause, errors.CategoryCorpus, "parse library metadata").
//		WithContext("path", metadataPath).
//		Fatal().
//		Build()
//
// Per-document degradations (missing README, failed include) are not errors at
// this level; they are reported through the pipeline's result collector.
package errors
