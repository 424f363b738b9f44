package stringpool_test

import (
	"fmt"

	"github.com/hupe1980/stringpool"
)

func Example() {
	pool := stringpool.New()
	defer pool.Destroy()

	// Repeated content maps to the same handle.
	mozilla, _ := pool.AddString("Mozilla")
	chrome, _ := pool.AddString("Chrome")
	again, _ := pool.AddString("Mozilla")

	fmt.Println(mozilla == again)
	fmt.Println(pool.Len())

	// Freeze once loading is done: the dedup index is dropped and the
	// arena shrinks to its exact used size.
	_ = pool.Freeze()

	s, _ := pool.GetString(chrome)
	fmt.Println(s)

	// Output:
	// true
	// 2
	// Chrome
}

func Example_frozenAppend() {
	pool := stringpool.New()
	defer pool.Destroy()

	h1, _ := pool.AddString("Safari")
	_ = pool.Freeze()

	// After freeze, Add still works but no longer deduplicates.
	h2, _ := pool.AddString("Safari")
	fmt.Println(h1 == h2)

	s1, _ := pool.GetString(h1)
	s2, _ := pool.GetString(h2)
	fmt.Println(s1, s2)

	// Output:
	// false
	// Safari Safari
}
