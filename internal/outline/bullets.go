package outline

import "strconv"

// RecalculateNumericBullets renumbers ordinal bullets ("1.", "2.", ...) under
// every parent so that they count up from 1 in child order. Other bullets
// are left alone and do not consume a number.
func RecalculateNumericBullets(r *Root) {
	var visit func(parent *List)
	visit = func(parent *List) {
		index := 1
		for _, child := range parent.Children() {
			if isOrdinalBullet(child.Bullet()) {
				child.SetBullet(strconv.Itoa(index) + ".")
				index++
			}
			visit(child)
		}
	}
	visit(r.RootList())
}
