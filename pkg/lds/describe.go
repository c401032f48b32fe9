package lds

import (
	"fmt"
	"strings"

	"github.com/gregLibert/lds-biometrics/pkg/tlv"
)

// Describe generates a detailed report of the decoded group, one block per image.
func (g *Group) Describe() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== %s BIOMETRIC DATA GROUP ===", strings.ToUpper(g.Kind.String()))
	fmt.Fprintf(&sb, "\n    - Group.Images: %d", g.Len())

	for i, r := range g.Fingers {
		prefix := fmt.Sprintf("Finger[%d]", i)
		fmt.Fprintf(&sb, "\n--- %s: %s, %s ---", prefix, r.PositionLabel(), r.FormatLabel())
		tlv.WriteStructFields(&sb, prefix, r)
		tlv.WriteStructFields(&sb, prefix+".Header", r.Header)
		tlv.WriteStructFields(&sb, prefix+".Image", r.FingerImage)
	}

	for i, r := range g.Faces {
		prefix := fmt.Sprintf("Face[%d]", i)
		fmt.Fprintf(&sb, "\n--- %s: %s, %s ---", prefix, r.PositionLabel(), r.FormatLabel())
		tlv.WriteStructFields(&sb, prefix, r)
		tlv.WriteStructFields(&sb, prefix+".Header", r.Header)
		tlv.WriteStructFields(&sb, prefix+".Image", r.FaceImage)
		for j, p := range r.FeaturePoints {
			fmt.Fprintf(&sb, "\n    - %s.FeaturePoint[%d]: %s", prefix, j, p)
		}
	}

	for i, w := range g.Warnings {
		fmt.Fprintf(&sb, "\n    - Warning[%d]: %v", i, w)
	}

	return sb.String()
}
