package logging

import (
	"strings"
	"testing"

	"go.viam.com/test"
)

func verifySetLevels(registry *Registry, expectedMatches map[string]string) bool {
	for name, level := range expectedMatches {
		logger, ok := registry.loggerNamed(name)
		if !ok || !strings.EqualFold(level, logger.GetLevel().String()) {
			return false
		}
	}
	return true
}

func createTestRegistry(loggerNames []string) *Registry {
	manager := newRegistry()
	for _, name := range loggerNames {
		manager.registerLogger(name, NewLogger(name))
	}
	return manager
}

func TestValidatePattern(t *testing.T) {
	t.Parallel()

	type testCfg struct {
		pattern string
		isValid bool
	}

	tests := []testCfg{
		// Valid patterns
		{"pipeline.rectify", true},
		{"pipeline.rectify.*", true},
		{"pipeline.*.blockmatcher", true},
		{"pipeline.*.*", true},
		{"*.rectify", true},
		{"*", true},

		// Invalid patterns
		{"pipeline..rectify", false},
		{"pipeline.rectify.", false},
		{".pipeline.rectify", false},
		{"pipeline.rectify.**", false},
		{"pipeline.**.rectify", false},

		// Invalid patterns with special characters
		{"_.pipeline.rectify", false},
		{"-.pipeline", false},
		{"pipeline.-", false},
		{"pipeline.-.rectify", false},
		{"pipeline._.rectify", false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.pattern, func(t *testing.T) {
			t.Parallel()
			test.That(t, validatePattern(tc.pattern), test.ShouldEqual, tc.isValid)
		})
	}
}

func TestUpdateLoggerRegistry(t *testing.T) {
	type testCfg struct {
		loggerConfig    []LoggerPatternConfig
		loggerNames     []string
		expectedMatches map[string]string
	}

	tests := []testCfg{
		{
			loggerConfig: []LoggerPatternConfig{
				{
					Pattern: "pipeline.rectify",
					Level:   "WARN",
				},
			},
			loggerNames: []string{
				"pipeline.rectify",
				"pipeline.rectify.undistort",
				"pipeline.disparity",
			},
			expectedMatches: map[string]string{
				"pipeline.rectify": "WARN",
			},
		},
		{
			loggerConfig: []LoggerPatternConfig{
				{
					Pattern: "pipeline.*",
					Level:   "DEBUG",
				},
			},
			loggerNames: []string{
				"pipeline.rectify",
				"pipeline.disparity.blockmatcher",
				"pipeline.rectify.undistort.left",
			},
			expectedMatches: map[string]string{
				"pipeline.rectify":                    "DEBUG",
				"pipeline.disparity.blockmatcher":      "DEBUG",
				"pipeline.rectify.undistort.left":      "DEBUG",
			},
		},
		{
			loggerConfig: []LoggerPatternConfig{
				{
					Pattern: "pipeline.*.blockmatcher",
					Level:   "ERROR",
				},
			},
			loggerNames: []string{
				"pipeline.disparity.blockmatcher",
				"pipeline.depth.blockmatcher",
				"pipeline.disparity.normalized",
			},
			expectedMatches: map[string]string{
				"pipeline.disparity.blockmatcher": "ERROR",
				"pipeline.depth.blockmatcher":     "ERROR",
			},
		},
		{
			loggerConfig: []LoggerPatternConfig{
				{
					Pattern: "pipeline.*",
					Level:   "DEBUG",
				},
				{
					Pattern: "pipeline.rectify",
					Level:   "WARN",
				},
			},
			loggerNames: []string{
				"pipeline.rectify",
			},
			expectedMatches: map[string]string{
				"pipeline.rectify": "WARN",
			},
		},
		{
			loggerConfig: []LoggerPatternConfig{
				{
					Pattern: "pipeline.*.blockmatcher",
					Level:   "WARN",
				},
			},
			loggerNames: []string{
				"pipeline.disparity.blockmatcher",
				"pipeline.disparity.left.blockmatcher",
			},
			expectedMatches: map[string]string{
				"pipeline.disparity.blockmatcher":      "WARN",
				"pipeline.disparity.left.blockmatcher": "WARN",
			},
		},
		{
			loggerConfig: []LoggerPatternConfig{
				{
					Pattern: "_.*.blockmatcher",
					Level:   "DEBUG",
				},
			},
			loggerNames: []string{
				"pipeline.rectify",
			},
			expectedMatches: map[string]string{},
		},
		{
			loggerConfig: []LoggerPatternConfig{
				{
					Pattern: "a.b",
					Level:   "DEBUG",
				},
			},
			loggerNames: []string{
				"a.b.c",
			},
			expectedMatches: map[string]string{
				"a.b.c": "INFO",
			},
		},
	}

	for _, tc := range tests {
		testRegistry := createTestRegistry(tc.loggerNames)

		err := testRegistry.Update(tc.loggerConfig, NewLogger("error-logger"))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, verifySetLevels(testRegistry, tc.expectedMatches), test.ShouldBeTrue)
	}
}
