package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-kit/kit/log/level"
	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/taotao21503/contract-generator/internal/config"
	"github.com/taotao21503/contract-generator/internal/generator/mq"
	"github.com/taotao21503/contract-generator/internal/kafka"
	"github.com/taotao21503/contract-generator/internal/path"
	"github.com/taotao21503/contract-generator/internal/response"
)

type configuration struct {
	MQHost string `envconfig:"MQ_HOST" default:"localhost"`
	MQPort int    `envconfig:"MQ_PORT" default:"9093"`

	OutputDir  string `envconfig:"OUTPUT_DIR" default:"/tmp"`
	ConfigFile string `envconfig:"CONFIG_FILE" default:""`

	GenerateTopicRequest  string `envconfig:"GENERATE_TOPIC_REQUEST" default:"request"`
	GenerateTopicResponse string `envconfig:"GENERATE_TOPIC_RESPONSE" default:"response"`
}

const prefixCfg = ""

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Consume generation requests from kafka",
	RunE: func(cmd *cobra.Command, args []string) error {
		var envCfg configuration
		if err := envconfig.Process(prefixCfg, &envCfg); err != nil {
			level.Error(logger).Log("msg", "configuration", "err", err)
			return err
		}

		level.Info(logger).Log("msg", "initialization")

		cfg, err := config.Load(envCfg.ConfigFile)
		if err != nil {
			level.Error(logger).Log("msg", "config init", "err", err)
			return err
		}

		pathBuilder, err := path.NewBuilder(
			envCfg.OutputDir,
			uuid.NewString,
		)
		if err != nil {
			level.Error(logger).Log("msg", "path init", "err", err)
			return err
		}

		svc, err := buildService(cfg)
		if err != nil {
			level.Error(logger).Log("msg", "service init", "err", err)
			return err
		}

		address := fmt.Sprintf("%s:%d", envCfg.MQHost, envCfg.MQPort)
		mqKafka, err := kafka.NewMessageQueue(
			[]string{address},
		)
		if err != nil {
			level.Error(logger).Log("msg", "kafka init", "address", address, "err", err)
			return err
		}

		handler := mq.NewGenerateHandler(
			svc,
			mq.NewGenerateTransport(
				response.Build,
			),
			pathBuilder,
			mqKafka.NewPublish(envCfg.GenerateTopicResponse),
		)

		if err = mqKafka.Consume(envCfg.GenerateTopicRequest, handler); err != nil {
			level.Error(logger).Log("msg", "kafka consume", "topic", envCfg.GenerateTopicRequest, "err", err)
			return err
		}

		go func() {
			level.Info(logger).Log("msg", "kafka listener turn on")
			mqKafka.ListenAndServe()
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGTERM, syscall.SIGINT)
		level.Info(logger).Log("msg", "received signal", "signal", <-c)

		level.Info(logger).Log("msg", "kafka listener shutdown")
		mqKafka.Shutdown()
		level.Info(logger).Log("msg", "stop service")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
