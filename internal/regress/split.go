package regress

import (
	"fmt"
	"math"
	"math/rand"
)

// TrainTestSplit partitions the index range [0,n) into train and test sets.
// The permutation is driven entirely by seed, so the same n, fraction and
// seed always produce the same split. The test set holds ceil(fraction*n)
// indices; the train side must remain non-empty.
func TrainTestSplit(n int, testFraction float64, seed int64) (train, test []int, err error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("regress: cannot split %d samples", n)
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("regress: test fraction must be in (0,1), got %v", testFraction)
	}

	testN := int(math.Ceil(testFraction * float64(n)))
	if n-testN < 1 {
		return nil, nil, fmt.Errorf("regress: %d samples leave an empty training split at fraction %v", n, testFraction)
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)

	test = append([]int(nil), perm[:testN]...)
	train = append([]int(nil), perm[testN:]...)
	return train, test, nil
}
