package component

import "github.com/milk9111/charctl/common"

type Transform struct {
	Position common.Vec3
}

var TransformComponent = NewComponent[Transform]()
