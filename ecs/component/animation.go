package component

import "github.com/milk9111/charctl/anim"

// Animator binds a character to its clip library and mixer.
type Animator struct {
	Mixer *anim.Mixer
}

var AnimatorComponent = NewComponent[Animator]()
