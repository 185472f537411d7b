package validate

// Variable is a named accumulator evaluated once at the start of each
// run, right after Sandbox.Initialise (Default), and re-evaluated after
// every visited object whose type or
// any super-type equals TargetType (Update). Variables are profile-wide
// singletons: exactly one binding exists per Name.
type Variable struct {
	Name       string
	TargetType string
	Default    string
	Update     string
}

// ErrorArgument names one value substituted into a Rule's ErrorTemplate.
// Value and Evaluated are populated by Sandbox.EvalErrorArguments;
// descriptors read from a Profile carry only Name and Expr.
type ErrorArgument struct {
	Name      string
	Expr      string
	Value     any
	Evaluated bool
}

// Rule is a single predicate applied to every Object whose ObjectType,
// or any of its SuperTypes, equals TargetType.
type Rule struct {
	RuleID        string
	TargetType    string
	Expr          string
	Description   string
	ErrorTemplate string
	Arguments     []ErrorArgument
	Deferred      bool
}

// Profile is the immutable-for-the-run source of rules and variables.
// Structural validity of expressions is the profile loader's
// responsibility, not the engine's; see memprofile for a reference
// YAML-backed implementation.
type Profile interface {
	// Variables returns every declared Variable, in no particular order.
	Variables() []*Variable

	// VariablesByObjectType returns the Variables whose TargetType is
	// objectType.
	VariablesByObjectType(objectType string) []*Variable

	// RulesByObjectType returns the Rules whose TargetType is
	// objectType. A nil entry in the returned slice must be tolerated
	// (skipped) by callers.
	RulesByObjectType(objectType string) []*Rule
}
