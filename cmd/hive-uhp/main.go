// Command hive-uhp runs a Hive rules engine as a Universal Hive
// Protocol server, reading commands from standard input and writing
// responses to standard output until end of input.
package main

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/hiveuhp/hive/internal/uhp"
)

func main() {
	klog.InitFlags(nil)
	pflag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	version := pflag.Bool("version", false, "print engine name and version, then exit")
	pflag.Parse()
	defer klog.Flush()

	if *version {
		fmt.Printf("%s v%s\n", uhp.EngineName, uhp.EngineVersion)
		return
	}

	protocol := uhp.New(os.Stdout)
	protocol.Run(os.Stdin)
}
