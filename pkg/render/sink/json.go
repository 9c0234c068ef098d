package sink

import (
	"encoding/json"

	"github.com/borelog/borelog/pkg/scene"
)

// RenderJSON exports the scene geometry as indented JSON for external
// tools. The export round-trips: unmarshaling it into a scene.Scene and
// re-encoding any format reproduces the drawing.
func RenderJSON(s scene.Scene) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
