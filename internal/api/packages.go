package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/piplant-core/internal/registry"
)

// PackageInfo describes one registry entry.
type PackageInfo struct {
	Name         string   `json:"name"`
	Module       string   `json:"module"`
	RemoteModule string   `json:"remote_module,omitempty"`
	Mock         bool     `json:"mock,omitempty"`
	Dependencies []string `json:"dependencies"`
	// Position is the entry's index in the build order, -1 when unknown.
	Position int `json:"position"`
	// InstanceType is the Go type of the constructed instance.
	InstanceType string `json:"instance_type,omitempty"`
}

// PackageList is the body of GET /packages.
type PackageList struct {
	State    string        `json:"state"`
	Order    []string      `json:"order"`
	Packages []PackageInfo `json:"packages"`
}

// packageInfos lists entries in build order when it is known, otherwise in
// declaration order.
func (s *Server) packageInfos() ([]PackageInfo, []string, error) {
	entries := s.registry.Entries()
	graph, err := s.registry.Graph()
	if err != nil && len(entries) > 0 {
		return nil, nil, err
	}

	position := make(map[string]int, len(graph.Order))
	for i, name := range graph.Order {
		position[name] = i
	}
	instances, _ := s.registry.Instances() //nolint:errcheck // nil view before import

	infos := make([]PackageInfo, len(entries))
	for i, e := range entries {
		info := PackageInfo{
			Name:         e.Name,
			Module:       e.Module.String(),
			Mock:         e.Mock,
			Dependencies: graph.Dependencies(e.Name),
			Position:     -1,
		}
		if info.Dependencies == nil {
			info.Dependencies = []string{}
		}
		if !e.RemoteModule.IsZero() {
			info.RemoteModule = e.RemoteModule.String()
		}
		if p, ok := position[e.Name]; ok {
			info.Position = p
		}
		if obj, ok := instances.Get(e.Name); ok {
			info.InstanceType = fmt.Sprintf("%T", obj)
		}
		infos[i] = info
	}

	if len(graph.Order) == len(infos) {
		sorted := make([]PackageInfo, len(infos))
		for _, info := range infos {
			sorted[info.Position] = info
		}
		infos = sorted
	}
	return infos, graph.Order, nil
}

// handleListPackages returns every entry with its build position and
// instance type.
func (s *Server) handleListPackages(w http.ResponseWriter, _ *http.Request) {
	infos, order, err := s.packageInfos()
	if err != nil {
		s.writeGraphError(w, err)
		return
	}
	if order == nil {
		order = []string{}
	}
	writeJSON(w, http.StatusOK, PackageList{
		State:    s.registry.State().String(),
		Order:    order,
		Packages: infos,
	})
}

// handleGetPackage returns one entry.
func (s *Server) handleGetPackage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	infos, _, err := s.packageInfos()
	if err != nil {
		s.writeGraphError(w, err)
		return
	}
	for _, info := range infos {
		if info.Name == name {
			writeJSON(w, http.StatusOK, info)
			return
		}
	}
	writeNotFound(w, fmt.Sprintf("package %q is not registered", name))
}

// handlePackageGraph renders the dependency graph. format is dot (default),
// mermaid or json.
func (s *Server) handlePackageGraph(w http.ResponseWriter, r *http.Request) {
	graph, err := s.registry.Graph()
	if err != nil {
		s.writeGraphError(w, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "dot":
		writeText(w, "text/vnd.graphviz; charset=utf-8", graph.DOT())
	case "mermaid":
		writeText(w, "text/plain; charset=utf-8", graph.Mermaid())
	case "json":
		writeJSON(w, http.StatusOK, graph)
	default:
		writeBadRequest(w, fmt.Sprintf("unknown format %q (want dot, mermaid or json)", format))
	}
}

func (s *Server) writeGraphError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrCircularDependency), errors.Is(err, registry.ErrNotFound), errors.Is(err, registry.ErrConfig):
		writeError(w, http.StatusConflict, ErrCodeConflict, err.Error())
	default:
		s.logger.Error("building package graph", "error", err)
		writeInternalError(w, "failed to build package graph")
	}
}
