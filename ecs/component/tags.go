package component

type CharacterTag struct {
	Name string
}

var CharacterTagComponent = NewComponent[CharacterTag]()
