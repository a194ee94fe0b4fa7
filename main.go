package main

import "github.com/df07/go-whitted-raytracer/cmd"

func main() {
	cmd.Execute()
}
