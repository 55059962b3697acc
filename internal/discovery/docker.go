/*
 * Docker - container runtime adapter.
 *
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
package discovery

import (
	"context"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
)

// Container is the view of a running container needed for discovery.
type Container struct {
	Name   string
	Labels map[string]string
}

// ContainerLister supplies the running containers of the local runtime.
type ContainerLister interface {
	ListContainers(ctx context.Context) ([]Container, error)
}

// Docker talks to the local Docker daemon.
type Docker struct {
	cli *client.Client
}

// NewDocker returns a Docker handle configured from the environment.
func NewDocker() (*Docker, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}
	return &Docker{cli: cli}, nil
}

// ListContainers returns the running containers with their labels.
func (d *Docker) ListContainers(ctx context.Context) ([]Container, error) {
	list, err := d.cli.ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return nil, err
	}
	containers := make([]Container, 0, len(list))
	for _, item := range list {
		containers = append(containers, Container{
			Name:   containerName(item),
			Labels: item.Labels,
		})
	}
	return containers, nil
}

// containerName strips the leading slash from the primary container name.
func containerName(item types.Container) string {
	if len(item.Names) == 0 {
		return item.ID
	}
	return strings.TrimPrefix(item.Names[0], "/")
}
