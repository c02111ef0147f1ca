// Package model defines the provider-agnostic language model abstraction used
// by agents. A Model turns a conversation plus optional instructions into a
// single response, optionally constrained to a JSON schema for structured
// output.
//
// Provider adapters live in subpackages (model/openai, model/anthropic); a
// MockModel is provided for tests and offline development.
package model
