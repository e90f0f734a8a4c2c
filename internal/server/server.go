// Package server exposes the target-finding pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hillstub/yeastriction/config"
	"github.com/hillstub/yeastriction/internal/bowtie"
	"github.com/hillstub/yeastriction/internal/genome"
	"github.com/hillstub/yeastriction/internal/oligo"
	"github.com/hillstub/yeastriction/internal/pipeline"
	"github.com/hillstub/yeastriction/internal/primer3"
	"github.com/hillstub/yeastriction/internal/target"
)

// Server wires the HTTP API to the pipeline and the reference data.
type Server struct {
	cfg      config.Config
	pipe     *pipeline.Pipeline
	designer *primer3.Designer

	// the registry pointer is swapped after a successful import,
	// everything behind it stays immutable
	mu  sync.RWMutex
	reg *genome.Registry
}

// New returns a Server backed by the given reference data and pipeline.
func New(cfg config.Config, reg *genome.Registry, pipe *pipeline.Pipeline, designer *primer3.Designer) *Server {
	return &Server{cfg: cfg, pipe: pipe, designer: designer, reg: reg}
}

// Router builds the gin engine with every API route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.Default()
	router.Use(requestID())

	api := router.Group("/api")
	api.GET("/strains", s.listStrains)
	api.GET("/strains/:strain/loci", s.listLoci)
	api.POST("/targets", s.findTargets)
	api.POST("/oligos", s.buildOligos)
	api.POST("/import", s.importStrain)

	return router
}

// requestID tags every request for log and error correlation.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// abortError writes the JSON error envelope and stops the handler chain.
func abortError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      err.Error(),
		"request_id": c.GetString("request_id"),
	})
}

// registry returns the current reference data snapshot.
func (s *Server) registry() *genome.Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg
}

func (s *Server) listStrains(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"strains": s.registry().Strains()})
}

// locusInfo is one row of the locus picker.
type locusInfo struct {
	ORF         string `json:"orf"`
	Symbol      string `json:"symbol,omitempty"`
	DisplayName string `json:"display_name"`
}

func (s *Server) listLoci(c *gin.Context) {
	strain, ok := s.registry().Strain(c.Param("strain"))
	if !ok {
		abortError(c, http.StatusNotFound, fmt.Errorf("unknown strain %s", c.Param("strain")))
		return
	}

	loci := make([]locusInfo, 0)
	for _, l := range strain.Loci() {
		loci = append(loci, locusInfo{ORF: l.ORF, Symbol: l.Symbol, DisplayName: l.DisplayName()})
	}
	c.JSON(http.StatusOK, gin.H{"strain": strain.Name, "loci": loci})
}

// targetsRequest selects the loci to search and optionally replaces the
// restriction enzyme list for this request only.
type targetsRequest struct {
	Strain  string          `json:"strain" binding:"required"`
	Loci    []string        `json:"loci" binding:"required,min=1"`
	Enzymes []target.Enzyme `json:"enzymes"`
}

// locusTargets is the per-locus slice of a targets response. Scores are
// normalized within one locus and must not be compared across loci.
type locusTargets struct {
	Locus       string          `json:"locus"`
	DisplayName string          `json:"display_name"`
	Targets     []target.Ranked `json:"targets"`
	Excluded    int             `json:"excluded,omitempty"`
	NoTargets   bool            `json:"no_targets,omitempty"`
}

func (s *Server) findTargets(c *gin.Context) {
	var req targetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, err)
		return
	}

	var enzymes []target.Enzyme
	if len(req.Enzymes) > 0 {
		var err error
		if enzymes, err = target.NormalizeEnzymes(req.Enzymes); err != nil {
			abortError(c, http.StatusBadRequest, err)
			return
		}
	}

	strain, ok := s.registry().Strain(req.Strain)
	if !ok {
		abortError(c, http.StatusNotFound, fmt.Errorf("unknown strain %s", req.Strain))
		return
	}

	results := make([]locusTargets, 0, len(req.Loci))
	for _, orf := range req.Loci {
		l, ok := strain.Locus(orf)
		if !ok {
			abortError(c, http.StatusNotFound, fmt.Errorf("unknown locus %s in strain %s", orf, strain.Name))
			return
		}

		result, err := s.pipe.Run(c.Request.Context(), strain.Name, l, enzymes)
		if err != nil {
			// screening trouble is systemic, stop the whole request
			status := http.StatusUnprocessableEntity
			if errors.Is(err, context.DeadlineExceeded) {
				status = http.StatusGatewayTimeout
			}
			abortError(c, status, err)
			return
		}

		results = append(results, locusTargets{
			Locus:       l.ORF,
			DisplayName: l.DisplayName(),
			Targets:     result.Targets,
			Excluded:    result.Excluded,
			NoTargets:   len(result.Targets) == 0,
		})
	}

	c.JSON(http.StatusOK, gin.H{"strain": strain.Name, "results": results})
}

// oligosRequest names a chosen target and how its plasmid should be built.
type oligosRequest struct {
	Strain      string `json:"strain" binding:"required"`
	Locus       string `json:"locus" binding:"required"`
	Target      string `json:"target" binding:"required,len=20"`
	BuildMethod string `json:"build_method" binding:"required"`
}

func (s *Server) buildOligos(c *gin.Context) {
	var req oligosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, err)
		return
	}

	method, err := oligo.BuildMethodByName(req.BuildMethod)
	if err != nil {
		abortError(c, http.StatusBadRequest, err)
		return
	}

	strain, ok := s.registry().Strain(req.Strain)
	if !ok {
		abortError(c, http.StatusNotFound, fmt.Errorf("unknown strain %s", req.Strain))
		return
	}
	l, ok := strain.Locus(req.Locus)
	if !ok {
		abortError(c, http.StatusNotFound, fmt.Errorf("unknown locus %s in strain %s", req.Locus, strain.Name))
		return
	}

	oligos := method.BuildOligos(l.DisplayName(), strings.ToUpper(req.Target))
	oligos = append(oligos, oligo.RepairOligos(l)...)

	fw, rv, err := s.designer.Diagnostic(c.Request.Context(), l)
	if err != nil {
		// the ordering list is still useful without diagnostic primers
		log.Printf("diagnostic primer design failed for %s: %v", l.DisplayName(), err)
	} else {
		oligos = append(oligos, oligo.DiagnosticOligos(l, fw, rv)...)
	}

	c.JSON(http.StatusOK, gin.H{"locus": l.ORF, "oligos": oligos})
}

// importStrain accepts a multipart upload of a <strain>.tab ORF table
// and its <strain>.fasta sequences. Unreachable unless imports are
// enabled in the configuration.
func (s *Server) importStrain(c *gin.Context) {
	if !s.cfg.Import.Allow {
		abortError(c, http.StatusForbidden, fmt.Errorf("genome import is disabled"))
		return
	}

	tabHeader, err := c.FormFile("tab")
	if err != nil {
		abortError(c, http.StatusBadRequest, fmt.Errorf("missing tab file: %w", err))
		return
	}
	fastaHeader, err := c.FormFile("fasta")
	if err != nil {
		abortError(c, http.StatusBadRequest, fmt.Errorf("missing fasta file: %w", err))
		return
	}

	name := strainName(tabHeader.Filename)
	if other := strainName(fastaHeader.Filename); other != name {
		abortError(c, http.StatusBadRequest,
			fmt.Errorf("file names disagree on the strain: %s vs %s", name, other))
		return
	}

	tab, err := readUpload(tabHeader)
	if err != nil {
		abortError(c, http.StatusBadRequest, err)
		return
	}
	fasta, err := readUpload(fastaHeader)
	if err != nil {
		abortError(c, http.StatusBadRequest, err)
		return
	}

	_, fastaPath, err := genome.ImportStrain(s.cfg.Genome.Dir, name, tab, fasta)
	if err != nil {
		abortError(c, http.StatusBadRequest, err)
		return
	}

	indexBase := path.Join(s.cfg.Genome.Dir, name)
	if err := bowtie.Build(c.Request.Context(), s.cfg.OffTarget.BowtieBuild, fastaPath, indexBase); err != nil {
		abortError(c, http.StatusInternalServerError, err)
		return
	}

	reg, err := genome.LoadDir(s.cfg.Genome.Dir)
	if err != nil {
		abortError(c, http.StatusInternalServerError, err)
		return
	}

	s.mu.Lock()
	s.reg = reg
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"strain": name, "message": "import complete"})
}

// strainName strips the extension from an uploaded file name.
func strainName(filename string) string {
	base := path.Base(filename)
	return strings.TrimSuffix(base, path.Ext(base))
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
