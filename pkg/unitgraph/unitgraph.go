// This file is part of ImageAudit
// Copyright (c) 2022 Confident Security, Inc.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package unitgraph

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
	"gopkg.in/ini.v1"
	"k8s.io/klog/v2"
)

var shellPaths = []string{"/bin/sh", "/bin/bash"}

// systemd Exec values may hold " ; " separated command lists and
// repeated directives append rather than override.
var unitLoadOptions = ini.LoadOptions{
	AllowShadows:        true,
	IgnoreInlineComment: true,
}

type node struct {
	id        int64
	name      string
	unit      bool
	usesShell bool
}

func (n *node) ID() int64 {
	return n.id
}

// DOTID returns the node name as a quoted DOT ID; unit names hold
// dots and dashes, which bare DOT IDs cannot.
func (n *node) DOTID() string {
	return strconv.Quote(n.name)
}

func (n *node) Attributes() []encoding.Attribute {
	if !n.unit {
		return nil
	}
	return []encoding.Attribute{
		{Key: "uses_shell", Value: fmt.Sprintf("%v", n.usesShell)},
	}
}

// Graph holds the dependency graph of a systemd unit directory. Nodes
// are unit files, dependency group directories and install targets;
// edges point from a unit to whatever pulls it in.
type Graph struct {
	graph *simple.DirectedGraph
	nodes map[string]*node
}

func newGraph() *Graph {
	return &Graph{
		graph: simple.NewDirectedGraph(),
		nodes: map[string]*node{},
	}
}

func (g *Graph) node(name string) *node {
	if n, found := g.nodes[name]; found {
		return n
	}
	n := &node{id: int64(len(g.nodes) + 1), name: name}
	g.nodes[name] = n
	g.graph.AddNode(n)
	return n
}

func (g *Graph) markUnit(name string, usesShell bool) {
	n := g.node(name)
	n.unit = true
	n.usesShell = n.usesShell || usesShell
}

func (g *Graph) addEdge(from, to string) {
	if from == to {
		klog.V(5).Infof("ignoring self dependency of %v", from)
		return
	}
	g.graph.SetEdge(g.graph.NewEdge(g.node(from), g.node(to)))
}

// Units returns the number of parsed unit files in the graph.
func (g *Graph) Units() (count int) {
	for _, n := range g.nodes {
		if n.unit {
			count++
		}
	}
	return count
}

// Nodes returns the total number of graph nodes.
func (g *Graph) Nodes() int {
	return len(g.nodes)
}

// Edges returns the number of dependency edges.
func (g *Graph) Edges() int {
	return g.graph.Edges().Len()
}

// ShellUnits returns the sorted names of units whose Exec directives
// run a shell.
func (g *Graph) ShellUnits() []string {
	var units []string
	for name, n := range g.nodes {
		if n.unit && n.usesShell {
			units = append(units, name)
		}
	}
	sort.Strings(units)
	return units
}

// DOT renders the graph in graphviz DOT format.
func (g *Graph) DOT() ([]byte, error) {
	data, err := dot.Marshal(g.graph, "units", "", "  ")
	if err != nil {
		return nil, fmt.Errorf("unable to render DOT graph; %w", err)
	}
	return data, nil
}

// Build walks the top level of a systemd unit directory and graphs its
// service units. Plain *.service files link to their install targets;
// *.wants and *.requires directories become dependency group nodes
// their member units link to.
func Build(dir string) (*Graph, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read unit directory %v; %w", dir, err)
	}

	g := newGraph()
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			klog.V(5).Infof("unable to stat %v: %v", path, err)
			continue
		}
		switch {
		case info.IsDir() && (strings.HasSuffix(name, ".wants") || strings.HasSuffix(name, ".requires")):
			if err := g.addGroup(path, name); err != nil {
				return nil, err
			}
		case !info.IsDir() && strings.HasSuffix(name, ".service"):
			unit, err := parseUnit(path)
			if err != nil {
				klog.ErrorS(err, "unable to parse unit", "unit", name)
				continue
			}
			g.markUnit(name, unit.usesShell)
			if unit.requiredBy != "" {
				g.addEdge(name, unit.requiredBy)
			}
			if unit.wantedBy != "" {
				g.addEdge(name, unit.wantedBy)
			}
		}
	}
	return g, nil
}

func (g *Graph) addGroup(dir, groupName string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("unable to read dependency directory %v; %w", dir, err)
	}

	g.node(groupName)
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".service") {
			continue
		}
		unit, err := parseUnit(filepath.Join(dir, name))
		if err != nil {
			klog.ErrorS(err, "unable to parse unit", "unit", name, "group", groupName)
			continue
		}
		if unit.usesShell {
			klog.ErrorS(nil, "unit requires a shell", "unit", name, "group", groupName)
		}
		g.markUnit(name, unit.usesShell)
		g.addEdge(name, groupName)
	}
	return nil
}

type unitInfo struct {
	usesShell  bool
	requiredBy string
	wantedBy   string
}

func parseUnit(path string) (*unitInfo, error) {
	file, err := ini.LoadSources(unitLoadOptions, path)
	if err != nil {
		return nil, fmt.Errorf("unable to load unit file %v; %w", path, err)
	}

	var info unitInfo
	if section, err := file.GetSection("Install"); err == nil {
		info.requiredBy = section.Key("RequiredBy").String()
		info.wantedBy = section.Key("WantedBy").String()
	}
	if section, err := file.GetSection("Service"); err == nil {
		for _, key := range []string{"ExecStartPre", "ExecStart", "ExecStartPost"} {
			for _, value := range section.Key(key).ValueWithShadows() {
				if fields := strings.Fields(value); len(fields) != 0 && commandUsesShell(fields[0]) {
					info.usesShell = true
				}
			}
		}
	}
	return &info, nil
}

// commandUsesShell reports whether an Exec directive program is a
// shell, a shell script by extension or a file with a shell shebang.
func commandUsesShell(prog string) bool {
	if prog == "" {
		return false
	}
	switch prog[0] {
	case '@', '-', ':', '+':
		prog = prog[1:]
	case '!':
		if strings.HasPrefix(prog, "!!") {
			prog = prog[2:]
		} else {
			prog = prog[1:]
		}
	}
	if prog == "" {
		return false
	}
	if !strings.HasPrefix(prog, "/") {
		if resolved, err := exec.LookPath(prog); err == nil {
			prog = resolved
		} else {
			klog.V(5).Infof("unable to resolve program %v: %v", prog, err)
		}
	}
	for _, shell := range shellPaths {
		if prog == shell {
			return true
		}
	}
	if strings.EqualFold(filepath.Ext(prog), ".sh") {
		return true
	}
	return hasShellShebang(prog)
}

func hasShellShebang(path string) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		klog.V(5).Infof("unable to read program %v: %v", path, err)
		return false
	}
	if !utf8.Valid(content) {
		// binary program
		return false
	}
	firstLine := strings.SplitN(strings.TrimSpace(string(content)), "\n", 2)[0]
	for _, shell := range shellPaths {
		if strings.Contains(firstLine, "#!"+shell) {
			return true
		}
	}
	return false
}
