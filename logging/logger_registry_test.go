package logging

import (
	"testing"

	"go.viam.com/test"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := newRegistry()
	l := NewTestLogger(t)
	r.registerLogger("pipeline.rectify", l)

	got, ok := r.loggerNamed("pipeline.rectify")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, got, test.ShouldEqual, l)

	_, ok = r.loggerNamed("pipeline.disparity")
	test.That(t, ok, test.ShouldBeFalse)
}

func TestRegistryDeregister(t *testing.T) {
	r := newRegistry()
	l := NewTestLogger(t)
	r.registerLogger("pipeline.rectify", l)

	test.That(t, r.deregisterLogger("pipeline.rectify"), test.ShouldBeTrue)
	test.That(t, r.deregisterLogger("pipeline.rectify"), test.ShouldBeFalse)

	_, ok := r.loggerNamed("pipeline.rectify")
	test.That(t, ok, test.ShouldBeFalse)
}

func TestRegistryUpdateLoggerLevel(t *testing.T) {
	r := newRegistry()
	l := NewTestLogger(t)
	r.registerLogger("pipeline.rectify", l)

	test.That(t, r.updateLoggerLevel("pipeline.rectify", WARN), test.ShouldBeNil)
	test.That(t, l.GetLevel(), test.ShouldEqual, WARN)

	err := r.updateLoggerLevel("pipeline.missing", WARN)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRegistryUpdateAppliesPatternAndResetsOthers(t *testing.T) {
	r := newRegistry()
	rectify := NewTestLogger(t)
	disparity := NewTestLogger(t)
	r.registerLogger("pipeline.rectify", rectify)
	r.registerLogger("pipeline.disparity", disparity)

	errLogger := NewTestLogger(t)
	err := r.Update([]LoggerPatternConfig{
		{Pattern: "pipeline.rectify", Level: "warn"},
	}, errLogger)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, rectify.GetLevel(), test.ShouldEqual, WARN)
	// Loggers that don't match any configured pattern reset to INFO.
	test.That(t, disparity.GetLevel(), test.ShouldEqual, INFO)

	test.That(t, r.getCurrentConfig(), test.ShouldResemble, []LoggerPatternConfig{
		{Pattern: "pipeline.rectify", Level: "warn"},
	})
}

func TestRegistryUpdateSkipsInvalidPattern(t *testing.T) {
	r := newRegistry()
	errLogger := NewTestLogger(t)
	err := r.Update([]LoggerPatternConfig{
		{Pattern: "(((", Level: "warn"},
	}, errLogger)
	test.That(t, err, test.ShouldBeNil)
}

func TestRegistryGetOrRegisterReturnsWinner(t *testing.T) {
	r := newRegistry()
	first := NewTestLogger(t)
	second := NewTestLogger(t)

	got := r.getOrRegister("pipeline.rectify", first)
	test.That(t, got, test.ShouldEqual, first)

	got = r.getOrRegister("pipeline.rectify", second)
	test.That(t, got, test.ShouldEqual, first)
}

func TestGlobalRegistryConvenienceFunctions(t *testing.T) {
	l := NewTestLogger(t)
	RegisterLogger("pipeline.test-global", l)

	got, ok := LoggerNamed("pipeline.test-global")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, got, test.ShouldEqual, l)

	test.That(t, UpdateLoggerLevel("pipeline.test-global", ERROR), test.ShouldBeNil)
	test.That(t, l.GetLevel(), test.ShouldEqual, ERROR)

	names := GetRegisteredLoggerNames()
	found := false
	for _, name := range names {
		if name == "pipeline.test-global" {
			found = true
		}
	}
	test.That(t, found, test.ShouldBeTrue)
}
