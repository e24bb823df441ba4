// Package shared holds helpers used across packages that belong to no
// single layer.
//
// The testutil subpackage builds the fixture workbooks, the boundary
// document and a slog capture handler that tests assert log output against:
//
//	func TestSomething(t *testing.T) {
//	    cfg := testutil.WriteFixtureSet(t, true)
//	    logger, handler := testutil.NewTestLogger(t)
//	    ...
//	    testutil.AssertLogContains(t, handler, slog.LevelInfo, "Inputs validated")
//	}
package shared
