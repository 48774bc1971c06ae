package scene

import "encoding/json"

// Traffic light parameter names.
const (
	StartTrafficLight = "startTrafficLight"
	EndTrafficLight   = "endTrafficLight"
)

// MeshInstance is a placed copy of a scene mesh.
type MeshInstance struct {
	Name      string           `json:"name"`
	Reference MeshReference    `json:"reference"`
	Settings  InstanceSettings `json:"settings"`
}

// InstanceSettings holds the editor settings of a mesh instance.
// ParentObjectID is the road a traffic light belongs to, or -1.
type InstanceSettings struct {
	ParameterName  string `json:"_parameterName"`
	ParentObjectID int    `json:"_parentObjectId"`
	Prop           bool   `json:"prop"`
}

// UnmarshalJSON defaults ParentObjectID to -1.
func (s *InstanceSettings) UnmarshalJSON(data []byte) error {
	type plain InstanceSettings
	p := plain{ParentObjectID: -1}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = InstanceSettings(p)
	return nil
}

// IsTrafficLight reports whether the instance is a traffic light.
func (m *MeshInstance) IsTrafficLight() bool {
	return m.Settings.ParameterName == StartTrafficLight || m.Settings.ParameterName == EndTrafficLight
}
