package enums

type LikeAction string

const (
	LikeActionLike      LikeAction = "LIKE"
	LikeActionUnlike    LikeAction = "UNLIKE"
	LikeActionEndorse   LikeAction = "ENDORSE"
	LikeActionUnendorse LikeAction = "UNENDORSE"
)

func (a LikeAction) Valid() bool {
	switch a {
	case LikeActionLike, LikeActionUnlike, LikeActionEndorse, LikeActionUnendorse:
		return true
	default:
		return false
	}
}
