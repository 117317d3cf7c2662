package facts

import "fmt"

func errFactIDOutOfRange(opName string) error {
	return fmt.Errorf("operator %q references a fact id outside the store's range", opName)
}
