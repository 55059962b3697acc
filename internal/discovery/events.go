/*
 * Events - container lifecycle notifications.
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

	"github.com/docker/docker/api/types/events"
	"github.com/docker/docker/api/types/filters"
)

// lifecycleActions are the container transitions that warrant a new sync
// pass.
var lifecycleActions = map[events.Action]bool{
	events.ActionStart:  true,
	events.ActionStop:   true,
	events.ActionDie:    true,
	events.ActionKill:   true,
	events.ActionRename: true,
}

// Watch invokes notify for every container lifecycle transition until the
// context is canceled or the event stream fails.
func (d *Docker) Watch(ctx context.Context, notify func(action, container string)) error {
	msgs, errs := d.cli.Events(ctx, events.ListOptions{
		Filters: filters.NewArgs(filters.Arg("type", "container")),
	})
	for {
		select {
		case msg := <-msgs:
			if !lifecycleActions[msg.Action] {
				continue
			}
			name := msg.Actor.Attributes["name"]
			if name == "" {
				name = "unknown"
			}
			notify(string(msg.Action), name)
		case err := <-errs:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
