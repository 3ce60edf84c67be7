package format_test

import (
	"fmt"

	"github.com/spendinglol/spending/pkg/format"
)

func ExampleDollars() {
	fmt.Println(format.Dollars(6.752e12))
	fmt.Println(format.Dollars(19.31e9))
	fmt.Println(format.Dollars(1e6))
	fmt.Println(format.Dollars(999_999.99))
	// Output:
	// $6.8T
	// $19.3B
	// $1.0M
	// $999,999.99
}

func ExamplePercentOf() {
	fmt.Println(format.PercentOf(300, 1000, format.TreemapPercentDecimals))
	fmt.Println(format.PercentOf(300, 1000, format.TablePercentDecimals))
	// Output:
	// 30.0%
	// 30.00%
}
