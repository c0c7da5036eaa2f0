package notebook

// MaxWrongAttempts is the number of distinct wrong options that exhausts a question
const MaxWrongAttempts = 3

// XP awarded for a correct answer, indexed by the wrong attempts before it
var xpByWrongCount = [...]int{10, 5, 2, 0}

// XPForWrongCount returns the XP for answering correctly after n wrong attempts
func XPForWrongCount(n int) int {
	if n < 0 || n >= len(xpByWrongCount) {
		return 0
	}
	return xpByWrongCount[n]
}
