// Package harness runs contract checks against an injected money API.
//
// A Check declares the dimensions it is enumerated over: amount types,
// input values, currencies, rounding providers and exchange rate
// providers. Enumerate expands each check into scenarios, one per element
// of the cross product, each with a stable ID. The Runner executes every
// scenario in isolation and reports one of pass, fail, skip, pending or
// error.
//
// # Scenario Context
//
// A check receives a *T. T implements require.TestingT, so checks use
// testify directly:
//
//	require.NoError(t, err, "add")
//	assert.True(t, a.IsZero())
//
// The domain assertions in this package (AmountEquals, ErrorKind,
// SameInstance, ...) report an *AssertionError tagged with the clause
// and the check.
//
// A panic raised by the implementation under test is recovered and
// reported as an error of the scenario that triggered it.
//
// # Scenario Tables
//
// Arithmetic cases can be written as YAML scenario tables, see
// ScenarioTable. Tables are decoded strictly: unknown fields are errors.
//
// # Skip Rule
//
// Amount types registered as stubs are excluded from checks marked
// FullPrecision; those scenarios are reported as skipped.
package harness
