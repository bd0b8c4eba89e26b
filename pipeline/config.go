package pipeline

import (
	"github.com/pkg/errors"

	"github.com/stereoforge/depthpipe/rimage/transform"
)

// StreamEnablement names a stream and the mode it should start in.
type StreamEnablement struct {
	Stream Stream `json:"stream"`
	Mode   Mode   `json:"mode"`
}

// Config describes everything needed to build a Graph and its initial Registry state from JSON,
// mirroring the teacher's transformConfig/AlignConfig pattern of a flat struct validated by a
// Validate(path string) error method.
type Config struct {
	CalibrationModel string `json:"calibration_model"`

	LeftIntrinsics  *transform.PinholeCameraIntrinsics `json:"left_intrinsic_parameters,omitempty"`
	RightIntrinsics *transform.PinholeCameraIntrinsics `json:"right_intrinsic_parameters,omitempty"`

	LeftDistortion  []float64 `json:"left_distortion,omitempty"`
	RightDistortion []float64 `json:"right_distortion,omitempty"`

	Extrinsics *transform.Extrinsics `json:"extrinsics,omitempty"`

	DisparityMethod    string  `json:"disparity_method"`
	DisparityBlockSize int     `json:"disparity_block_size"`
	MaxDisparity       int     `json:"max_disparity"`
	NormalizeOutMax    float64 `json:"normalize_out_max"`

	InitialStreams []StreamEnablement `json:"initial_streams,omitempty"`
}

// Model parses CalibrationModel into a CalibrationModel value.
func (cfg *Config) Model() CalibrationModel {
	switch cfg.CalibrationModel {
	case "PINHOLE":
		return CalibrationPinhole
	case "KANNALA_BRANDT":
		return CalibrationKannalaBrandt
	default:
		return CalibrationUnknown
	}
}

// Validate ensures all parts of the config are well-formed, following the teacher's
// field-required/range-check validation style.
func (cfg *Config) Validate(path string) error {
	if cfg.CalibrationModel == "" {
		return errors.Errorf("%s: calibration_model is required", path)
	}
	if cfg.LeftIntrinsics == nil {
		return errors.Errorf("%s: left_intrinsic_parameters is required", path)
	}
	if cfg.RightIntrinsics == nil {
		return errors.Errorf("%s: right_intrinsic_parameters is required", path)
	}
	for _, intr := range []*transform.PinholeCameraIntrinsics{cfg.LeftIntrinsics, cfg.RightIntrinsics} {
		if intr.Width <= 0 || intr.Height <= 0 {
			return errors.Errorf("%s: got illegal non-positive dimensions for width_px/height_px (%d, %d)",
				path, intr.Width, intr.Height)
		}
	}
	if cfg.Extrinsics == nil {
		return errors.Errorf("%s: extrinsics is required", path)
	}
	if err := cfg.Extrinsics.CheckValid(); err != nil {
		return errors.Wrapf(err, "%s: extrinsics", path)
	}
	if cfg.DisparityBlockSize <= 0 || cfg.DisparityBlockSize%2 == 0 {
		return errors.Errorf("%s: disparity_block_size must be a positive odd number, got %d",
			path, cfg.DisparityBlockSize)
	}
	if cfg.MaxDisparity <= 0 {
		return errors.Errorf("%s: max_disparity must be positive, got %d", path, cfg.MaxDisparity)
	}
	switch transform.DisparityMethod(cfg.DisparityMethod) {
	case transform.DisparitySAD, transform.DisparitySSD:
	default:
		return errors.Errorf("%s: unknown disparity_method %q", path, cfg.DisparityMethod)
	}
	if cfg.NormalizeOutMax <= 0 {
		return errors.Errorf("%s: normalize_out_max must be positive, got %g", path, cfg.NormalizeOutMax)
	}
	return nil
}
