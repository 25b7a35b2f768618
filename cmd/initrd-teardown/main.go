package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/amadigan/teardown/cli/teardown"
	"github.com/amadigan/teardown/internal/applog"
	"github.com/amadigan/teardown/internal/logerr"
)

var log = applog.New("initrd-teardown")

func main() {
	cmd := teardown.NewRootCommand(&teardown.Cli{})

	cmd.SetIn(os.Stdin)
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	if err := cmd.ExecuteContext(createContext()); err != nil {
		log.Fatalf("%v", err)

		var step *logerr.StepError
		if errors.As(err, &step) {
			log.Debugf("%s failed at:\n%s", step.Step, step.Stack)
		}

		os.Exit(1)
	}
}

func createContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 3)
	signal.Notify(sig, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sig
		cancel()

		for i := 0; i < 2; i++ {
			<-sig
		}

		log.Infof("got 3 SIGTERM/SIGINTs, forcefully exiting")

		os.Exit(1)
	}()

	return ctx
}
