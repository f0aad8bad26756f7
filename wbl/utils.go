package wbl

import (
	"log"

	"gonum.org/v1/gonum/mat"
)

//HandleError interrupts the execution in a case of error. It is meant for the
//CLI boundary; the library itself returns errors.
func HandleError(err error) {
	if err != nil {
		log.Panic(err)
	}
}

//Height returns the height of a dense matrix.
func Height(m *mat.Dense) int {
	h, _ := m.Dims()
	return h
}

//intPow returns base**exp for small non-negative exponents.
func intPow(base, exp int) int {
	result := 1
	for ; exp > 0; exp-- {
		result *= base
	}
	return result
}

//intLog returns the number of times x can be divided by base without a
//remainder together with a flag telling whether x is an exact power of base.
func intLog(base, x int) (int, bool) {
	if x < 1 {
		return 0, false
	}
	level := 0
	for x >= base {
		if x%base != 0 {
			return level, false
		}
		x /= base
		level++
	}
	return level, x == 1
}
