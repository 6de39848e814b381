// Command almanac schedules project files over a working calendar.
package main

import "github.com/papapumpkin/almanac/cmd"

func main() {
	cmd.Execute()
}
