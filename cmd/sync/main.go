/*
 * Copyright 2026 the cloudflare-dns-sync authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloudflare-dns-sync/internal/cloudflare"
	"cloudflare-dns-sync/internal/config"
	"cloudflare-dns-sync/internal/discovery"
	"cloudflare-dns-sync/internal/metrics"
	"cloudflare-dns-sync/internal/server"
	"cloudflare-dns-sync/internal/sync"
	"cloudflare-dns-sync/internal/watcher"

	log "github.com/sirupsen/logrus"
)

// eventSettleDelay gives containers time to finish starting or stopping
// before the pass triggered by their lifecycle event reads their state.
const eventSettleDelay = 2 * time.Second

var (
	// notify requires the SIGINT and SIGTERM signals to be sent to the caller.
	notify = func(sig chan os.Signal) {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	}
)

// healthStatus is the interface used by loop.
type healthStatus interface {
	SetHealthy(bool)
	SetReady(bool)
}

// loop waits for a SIGTERM or a SIGINT, marks the service unhealthy and
// stops the trigger loops. An in-flight pass still runs to completion.
func loop(status healthStatus, cancel context.CancelFunc) {
	exitSignal := make(chan os.Signal, 1)
	notify(exitSignal)
	sig := <-exitSignal

	log.Infof("Signal %s received. Shutting down the service.", sig.String())
	status.SetHealthy(false)
	status.SetReady(false)
	cancel()
}

// configureLogging selects the JSON formatter and sets the log level,
// falling back to info on an unknown value.
func configureLogging(level string) {
	log.SetFormatter(&log.JSONFormatter{})
	parsed, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", level)
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}

// main function
func main() {
	// Read service options
	options, err := config.NewOptions()
	if err != nil {
		log.Fatal(err)
	}
	configureLogging(options.LogLevel)

	// Read socket options
	socketOptions, err := server.NewSocketOptions()
	if err != nil {
		log.Fatal(err)
	}

	// Read the API token
	token, err := options.ReadAPIToken()
	if err != nil {
		log.Fatalf("Failed to read API token file: %v", err)
	}
	log.Info("API token loaded")

	// Start the metrics and probe socket
	log.Infof("Starting metrics and probe socket on %s", socketOptions.GetMetricsAddress())
	status := server.Status{}
	socket := server.NewMetricsSocket(&status, metrics.GetOpenMetricsInstance().GetRegistry())
	startedChan := make(chan struct{})
	go socket.Start(startedChan, *socketOptions)
	<-startedChan
	status.SetHealthy(true)

	// Create the DNS API client
	client, err := cloudflare.NewClient(cloudflare.Options{
		BaseURL:        options.APIURL,
		Token:          token,
		ZoneName:       options.ZoneName,
		ConnectTimeout: options.GetConnectTimeout(),
		ReadTimeout:    options.GetReadTimeout(),
	})
	if err != nil {
		log.Fatal(err)
	}

	// Set up container discovery
	watchDocker := options.WatchDocker
	var dockerd *discovery.Docker
	var discoverer *discovery.Discoverer
	if watchDocker {
		dockerd, err = discovery.NewDocker()
		if err != nil {
			log.Warnf("Docker unavailable, container discovery disabled: %v", err)
			watchDocker = false
		} else {
			publicIP := discovery.NewHTTPPublicIP(options.PublicIPURL)
			discoverer = discovery.NewDiscoverer(dockerd, publicIP, options.LabelToken)
		}
	}

	aggregator := sync.NewAggregator(options.ConfigFile, watchDocker, discoverer)
	reconciler := sync.NewReconciler(client, options.ZoneName, options.ManagedComment, options.DryRun)
	service := sync.NewService(aggregator, reconciler, options.GetSyncInterval())

	ctx, cancel := context.WithCancel(context.Background())
	go loop(&status, cancel)

	// Config file trigger
	configWatcher := watcher.New(options.ConfigFile, service.SyncAll)
	go func() {
		if err := configWatcher.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorf("Config watcher stopped: %v", err)
		}
	}()

	// Container event trigger
	if watchDocker {
		go func() {
			err := dockerd.Watch(ctx, func(action, container string) {
				log.WithFields(log.Fields{
					"action":    action,
					"container": container,
				}).Info("Docker event detected")
				service.SyncAfter(eventSettleDelay)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Errorf("Docker event watcher stopped: %v", err)
			}
		}()
	}

	status.SetReady(true)

	// Reconcile until a signal tells us to exit
	service.Run(ctx)
}
