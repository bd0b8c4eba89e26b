package logging

import (
	"context"
	"testing"

	"go.viam.com/test"
)

type BasicStruct struct {
	X int
	y string
	z string
}

type User struct {
	Name string
}

type StructWithStruct struct {
	x int
	Y User
	z string
}

type StructWithAnonymousStruct struct {
	x int
	Y struct {
		Y1 string
	}
	Z string
}

func TestImplLevelFiltering(t *testing.T) {
	logger, observed := NewObservedTestLogger(t)
	logger.SetLevel(WARN)

	logger.Debug("should not appear")
	logger.Info("should not appear either")
	logger.Warn("this should appear")

	test.That(t, observed.Len(), test.ShouldEqual, 1)
	test.That(t, observed.All()[0].Message, test.ShouldEqual, "this should appear")
}

func TestImplContextDebugModeBypassesLevel(t *testing.T) {
	logger, observed := NewObservedTestLogger(t)
	logger.SetLevel(ERROR)

	logger.CDebug(context.Background(), "filtered out, no debug context")
	test.That(t, observed.Len(), test.ShouldEqual, 0)

	ctx := EnableDebugMode(context.Background(), "trace-1")
	logger.CDebugw(ctx, "passes through", "traceID", "trace-1")
	test.That(t, observed.Len(), test.ShouldEqual, 1)
}

func TestImplInfowEncodesStructuredFields(t *testing.T) {
	logger, observed := NewObservedTestLogger(t)

	logger.Infow("impl logw", "key", "val", "StructWithAnonymousStruct",
		StructWithAnonymousStruct{1, struct{ Y1 string }{"y1"}, "foo"})

	entries := observed.All()
	test.That(t, len(entries), test.ShouldEqual, 1)
	test.That(t, entries[0].Message, test.ShouldEqual, "impl logw")

	fieldsByKey := entries[0].ContextMap()
	test.That(t, fieldsByKey["key"], test.ShouldEqual, "val")
	_, ok := fieldsByKey["StructWithAnonymousStruct"]
	test.That(t, ok, test.ShouldBeTrue)
}

func TestImplSubloggerNamesAreDotted(t *testing.T) {
	logger := NewBlankLogger("pipeline")
	sub := logger.Sublogger("rectify")
	test.That(t, sub.(*impl).name, test.ShouldEqual, "pipeline.rectify")

	grandchild := sub.Sublogger("undistort")
	test.That(t, grandchild.(*impl).name, test.ShouldEqual, "pipeline.rectify.undistort")
}

func TestImplSubloggerInheritsLevelButIsIndependent(t *testing.T) {
	logger := NewBlankLogger("pipeline")
	logger.SetLevel(WARN)
	sub := logger.Sublogger("rectify")
	test.That(t, sub.GetLevel(), test.ShouldEqual, WARN)

	sub.SetLevel(DEBUG)
	test.That(t, logger.GetLevel(), test.ShouldEqual, WARN)
}

func TestNewBlankLoggerReturnsImpl(t *testing.T) {
	// Fatalw calls os.Exit, so it cannot be exercised in-process; this only checks that
	// NewBlankLogger hands back the *impl those methods are defined on.
	var l Logger = NewBlankLogger("pipeline")
	_, ok := l.(*impl)
	test.That(t, ok, test.ShouldBeTrue)
}
