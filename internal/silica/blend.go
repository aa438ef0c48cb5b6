package silica

import "fmt"

// BlendingMode is a layer blend mode as stored on disk. The numeric codes
// are not contiguous: 18 is unassigned in every known format revision and
// is rejected at decode time.
type BlendingMode uint32

const (
	BlendNormal       BlendingMode = 0
	BlendMultiply     BlendingMode = 1
	BlendScreen       BlendingMode = 2
	BlendAdd          BlendingMode = 3
	BlendLighten      BlendingMode = 4
	BlendExclusion    BlendingMode = 5
	BlendDifference   BlendingMode = 6
	BlendSubtract     BlendingMode = 7
	BlendLinearBurn   BlendingMode = 8
	BlendColorDodge   BlendingMode = 9
	BlendColorBurn    BlendingMode = 10
	BlendOverlay      BlendingMode = 11
	BlendHardLight    BlendingMode = 12
	BlendColor        BlendingMode = 13
	BlendLuminosity   BlendingMode = 14
	BlendHue          BlendingMode = 15
	BlendSaturation   BlendingMode = 16
	BlendSoftLight    BlendingMode = 17
	BlendDarken       BlendingMode = 19
	BlendHardMix      BlendingMode = 20
	BlendVividLight   BlendingMode = 21
	BlendLinearLight  BlendingMode = 22
	BlendPinLight     BlendingMode = 23
	BlendLighterColor BlendingMode = 24
	BlendDarkerColor  BlendingMode = 25
	BlendDivide       BlendingMode = 26
)

var blendNames = map[BlendingMode]string{
	BlendNormal:       "Normal",
	BlendMultiply:     "Multiply",
	BlendScreen:       "Screen",
	BlendAdd:          "Add",
	BlendLighten:      "Lighten",
	BlendExclusion:    "Exclusion",
	BlendDifference:   "Difference",
	BlendSubtract:     "Subtract",
	BlendLinearBurn:   "Linear Burn",
	BlendColorDodge:   "Color Dodge",
	BlendColorBurn:    "Color Burn",
	BlendOverlay:      "Overlay",
	BlendHardLight:    "Hard Light",
	BlendColor:        "Color",
	BlendLuminosity:   "Luminosity",
	BlendHue:          "Hue",
	BlendSaturation:   "Saturation",
	BlendSoftLight:    "Soft Light",
	BlendDarken:       "Darken",
	BlendHardMix:      "Hard Mix",
	BlendVividLight:   "Vivid Light",
	BlendLinearLight:  "Linear Light",
	BlendPinLight:     "Pin Light",
	BlendLighterColor: "Lighter Color",
	BlendDarkerColor:  "Darker Color",
	BlendDivide:       "Divide",
}

// BlendingModeFromCode validates a wire code.
func BlendingModeFromCode(code uint32) (BlendingMode, error) {
	m := BlendingMode(code)
	if _, ok := blendNames[m]; !ok {
		return 0, fmt.Errorf("blend code %d: %w", code, ErrInvalidValue)
	}
	return m, nil
}

func (m BlendingMode) String() string {
	if name, ok := blendNames[m]; ok {
		return name
	}
	return fmt.Sprintf("BlendingMode(%d)", uint32(m))
}

// Code returns the on-disk numeric code.
func (m BlendingMode) Code() uint32 { return uint32(m) }
