package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/awcullen/opcua/ua"
	"github.com/mamezou-tech/opcua-sample/sampleclient"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := sampleclient.DefaultConfig()
	var (
		delta = flag.Int("delta", int(sampleclient.DefaultDelta), "delta passed to IncreaseVariable")
		pause = flag.Bool("pause", false, "wait for a key press between the demo steps")
		burst = flag.Int("burst", 0, "call IncreaseVariable this many times concurrently, instead of the demo")
		watch = flag.Bool("watch", false, "print each change of SampleVariable until Ctrl-C, instead of the demo")
		repl  = flag.Bool("i", false, "run commands interactively, instead of the demo")
	)
	flag.StringVar(&cfg.EndpointURL, "endpoint", cfg.EndpointURL, "endpoint url of the server")
	flag.StringVar(&cfg.UserName, "user", "", "user name, if not anonymous")
	flag.StringVar(&cfg.Password, "password", "", "password of the user")
	flag.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "time limit to connect")
	flag.Parse()

	log := logrus.New()
	cfg.Logger = log

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := sampleclient.Dial(ctx, cfg)
	if err != nil {
		log.WithError(err).Errorf("The connection failed with status code %s", sampleclient.StatusCode(err).Error())
		stop()
		os.Exit(1)
	}
	defer c.Close(context.Background())

	switch {
	case *repl:
		err = sampleclient.NewRepl(c, os.Stdout).Run(ctx)
	case *watch:
		fmt.Println("Press Ctrl-C to exit...")
		err = c.WatchSampleVariable(ctx, func(dv ua.DataValue) {
			if dv.StatusCode.IsBad() {
				fmt.Printf("SampleVariable: %s\n", dv.StatusCode.Error())
				return
			}
			fmt.Printf("the value of SampleVariable: %v (%s)\n", dv.Value, dv.SourceTimestamp.Format("15:04:05.000"))
		})
	case *burst > 0:
		var res sampleclient.BurstResult
		if res, err = sampleclient.Burst(ctx, c, *burst, int32(*delta)); err == nil {
			res.Print(os.Stdout)
		}
	default:
		d := sampleclient.NewDemo(os.Stdout)
		d.Delta = int32(*delta)
		d.KeyPress = sampleclient.WaitForKey(os.Stdin)
		if *pause {
			d.Pause = d.KeyPress
		}
		err = d.Run(ctx, c)
	}
	if err != nil {
		log.WithError(err).Error("Error running client.")
	}
}
