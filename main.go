package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/DavidGamba/go-getoptions"
	"github.com/cyverse-de/configurate"
	"github.com/cyverse-de/go-mod/otelutils"
	"github.com/sirupsen/logrus"

	_ "github.com/lib/pq"

	"github.com/socialwire/notifier/db"
	"github.com/socialwire/notifier/emailer"
	"github.com/socialwire/notifier/events"
	"github.com/socialwire/notifier/handlers"
	"github.com/socialwire/notifier/handlerset"
	"github.com/socialwire/notifier/notifier"
)

const serviceName = "notifier"

var log = logrus.WithFields(logrus.Fields{"service": serviceName})

// commandLineOptionValues represents the values of the command-line options that were passed on the command line when
// this service was invoked.
type commandLineOptionValues struct {
	Config   string
	LogLevel string
}

func parseCommandLine() *commandLineOptionValues {
	optionValues := &commandLineOptionValues{}
	opt := getoptions.New()

	// Default option values.
	defaultConfigPath := "/etc/socialwire/notifier.yml"

	// Define the command-line options.
	opt.Bool("help", false, opt.Alias("h", "?"))
	opt.StringVar(&optionValues.Config, "config", defaultConfigPath,
		opt.Alias("c"),
		opt.Description("the path to the configuration file"))
	opt.StringVar(&optionValues.LogLevel, "log-level", "info",
		opt.Description("the logging level: trace, debug, info, warn, error"))

	// Parse the command line, handling requests for help and usage errors.
	_, err := opt.Parse(os.Args[1:])
	if opt.Called("help") {
		fmt.Fprintf(os.Stderr, opt.Help())
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n\n", err)
		fmt.Fprintf(os.Stderr, opt.Help(getoptions.HelpSynopsis))
		os.Exit(1)
	}

	return optionValues
}

func main() {
	// Parse the command-line.
	optionValues := parseCommandLine()

	// Initialize logging.
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(optionValues.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	logrus.SetLevel(logLevel)

	// Initialize tracing.
	tracerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	shutdown := otelutils.TracerProviderFromEnv(tracerCtx, serviceName, func(e error) { log.Fatal(e) })
	defer shutdown()

	// Read in the configuration file.
	cfg, err := configurate.InitDefaults(optionValues.Config, configurate.JobServicesDefaults)
	if err != nil {
		log.Fatal(err)
	}

	// Establish the database connection.
	databaseURI := cfg.GetString("db.uri")
	database, err := db.InitDatabase("postgres", databaseURI)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	// Retrieve the AMQP settings.
	amqpSettings := &handlerset.AMQPSettings{
		URI:          cfg.GetString("amqp.uri"),
		ExchangeName: cfg.GetString("amqp.exchange.name"),
		ExchangeType: cfg.GetString("amqp.exchange.type"),
		QueueName:    cfg.GetString("amqp.queue"),
	}

	// Wire the notification core to the event dispatcher.
	dispatcher := events.NewDispatcher()
	notificationCore := notifier.New(database, dispatcher)

	// Create the handler set.
	handlerSet, err := handlerset.New(amqpSettings, handlers.InitMessageHandlers(notificationCore))
	if err != nil {
		log.Fatal(err)
	}
	defer handlerSet.Close()

	// Route notify and renotify events to the email delivery subsystem.
	emailer.New(database, handlerSet.Client()).Subscribe(dispatcher)

	// Begin consuming requests.
	err = handlerSet.Listen()
	if err != nil {
		log.Fatal(err)
	}
	log.Info("waiting for incoming notification requests")

	// Wait for a signal to shut down.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals
	log.Info("shutting down")
}
