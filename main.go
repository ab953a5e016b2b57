package main

import "github.com/BerniceZTT/sales_end/cmd"

func main() {
	cmd.Execute()
}
