package pipeline

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/stereoforge/depthpipe/rimage/transform"
)

func validConfig() *Config {
	return &Config{
		CalibrationModel: "PINHOLE",
		LeftIntrinsics:   &transform.PinholeCameraIntrinsics{Width: 8, Height: 8, Fx: 100, Fy: 100, Ppx: 4, Ppy: 4},
		RightIntrinsics:  &transform.PinholeCameraIntrinsics{Width: 8, Height: 8, Fx: 100, Fy: 100, Ppx: 4, Ppy: 4},
		Extrinsics: &transform.Extrinsics{
			RotationMatrix:    [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1},
			TranslationVector: r3.Vector{X: 50},
		},
		DisparityMethod:    string(transform.DisparitySAD),
		DisparityBlockSize: 5,
		MaxDisparity:       16,
		NormalizeOutMax:    255,
	}
}

func TestConfigValidateAcceptsWellFormedConfig(t *testing.T) {
	test.That(t, validConfig().Validate("cfg"), test.ShouldBeNil)
}

func TestConfigValidateRejectsMissingCalibrationModel(t *testing.T) {
	cfg := validConfig()
	cfg.CalibrationModel = ""
	test.That(t, cfg.Validate("cfg"), test.ShouldNotBeNil)
}

func TestConfigValidateRejectsMissingIntrinsics(t *testing.T) {
	cfg := validConfig()
	cfg.LeftIntrinsics = nil
	test.That(t, cfg.Validate("cfg"), test.ShouldNotBeNil)
}

func TestConfigValidateRejectsNonPositiveDimensions(t *testing.T) {
	cfg := validConfig()
	cfg.LeftIntrinsics.Width = 0
	test.That(t, cfg.Validate("cfg"), test.ShouldNotBeNil)
}

func TestConfigValidateRejectsZeroBaselineExtrinsics(t *testing.T) {
	cfg := validConfig()
	cfg.Extrinsics.TranslationVector.X = 0
	test.That(t, cfg.Validate("cfg"), test.ShouldNotBeNil)
}

func TestConfigValidateRejectsEvenBlockSize(t *testing.T) {
	cfg := validConfig()
	cfg.DisparityBlockSize = 4
	test.That(t, cfg.Validate("cfg"), test.ShouldNotBeNil)
}

func TestConfigValidateRejectsUnknownDisparityMethod(t *testing.T) {
	cfg := validConfig()
	cfg.DisparityMethod = "bogus"
	test.That(t, cfg.Validate("cfg"), test.ShouldNotBeNil)
}

func TestConfigValidateRejectsNonPositiveNormalizeOutMax(t *testing.T) {
	cfg := validConfig()
	cfg.NormalizeOutMax = 0
	test.That(t, cfg.Validate("cfg"), test.ShouldNotBeNil)
}

func TestConfigModelParsesKnownValues(t *testing.T) {
	cfg := validConfig()
	test.That(t, cfg.Model(), test.ShouldEqual, CalibrationPinhole)
	cfg.CalibrationModel = "KANNALA_BRANDT"
	test.That(t, cfg.Model(), test.ShouldEqual, CalibrationKannalaBrandt)
	cfg.CalibrationModel = "bogus"
	test.That(t, cfg.Model(), test.ShouldEqual, CalibrationUnknown)
}
