/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/longkey1/askc/cmd"

func main() {
	cmd.Execute()
}
