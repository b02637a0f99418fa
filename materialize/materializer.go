// Package materialize implements the one stage this module exists for:
// turning a cost-based search's chosen Path tree into an executable Plan
// tree. It is a direct, package-level port of createplan.c's create_plan
// and its specializers, with the collaborators that file reached into
// global state for (the catalog, the cost model) injected instead.
package materialize

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/relplan/planmat/catalog"
	"github.com/relplan/planmat/config"
	"github.com/relplan/planmat/costmodel"
	"github.com/relplan/planmat/path"
	"github.com/relplan/planmat/plan"
	"github.com/relplan/planmat/planerrors"
	"github.com/relplan/planmat/telemetry"
)

// Materializer holds the collaborators CreatePlan needs: the schema
// catalog (for recheck decisions), the cost model (for Sort/Agg/Group
// formulas and the cpu_*_cost constants), and the logger/metrics pair used
// for observability. None of it is global state; callers construct one
// Materializer per configuration and may share it across concurrent
// CreatePlan calls, each given its own Path tree.
type Materializer struct {
	Catalog catalog.Catalog
	Model   costmodel.Model
	Config  *config.Config
	Logger  *logrus.Logger
	Metrics *telemetry.Metrics
}

// New builds a Materializer from a Config, a standard cost model derived
// from it, the given catalog, and a default logrus logger.
func New(cat catalog.Catalog, cfg *config.Config) *Materializer {
	return &Materializer{
		Catalog: cat,
		Model:   costmodel.NewStandard(cfg.CPUTupleCost, cfg.CPUOperatorCost),
		Config:  cfg,
		Logger:  logrus.StandardLogger(),
		Metrics: telemetry.NewMetrics(),
	}
}

// enableMergeJoin/enableHashJoin mirror enable_mergejoin/enable_hashjoin:
// a Materializer built without a Config (e.g. via a bare struct literal in
// tests) keeps every strategy enabled.
func (m *Materializer) enableMergeJoin() bool {
	return m.Config == nil || m.Config.EnableMergeJoin
}

func (m *Materializer) enableHashJoin() bool {
	return m.Config == nil || m.Config.EnableHashJoin
}

// CreatePlan is the single top-level entry point: it traces the Path tree
// rooted at p, building a corresponding Plan node for every Path node,
// bottom-up via recursion, fixing up join quals and index quals to the
// form the executor needs along the way.
func (m *Materializer) CreatePlan(p path.Node) (plan.Plan, error) {
	span, _ := opentracing.StartSpanFromContext(context.Background(), "materialize.CreatePlan")
	defer span.Finish()

	callID := uuid.New().String()
	log := m.logger().WithField("call_id", callID)

	result, err := m.createPlan(p, log)
	if err != nil {
		m.metrics().RecordFailure()
		log.WithError(err).Trace("CreatePlan failed")
		return nil, errors.Wrap(err, "materialize: CreatePlan")
	}
	m.metrics().RecordSuccess(result.Head().TotalCost)
	return result, nil
}

func (m *Materializer) createPlan(p path.Node, log *logrus.Entry) (plan.Plan, error) {
	if p == nil {
		return nil, planerrors.ErrShapeAssertion.New("nil path node")
	}

	switch n := p.(type) {
	case *path.SeqScan, *path.IndexScan, *path.TidScan, *path.SubqueryScan, *path.FunctionScan:
		log.Tracef("materializing scan node %T", n)
		result, err := m.createScanPlan(p, log)
		m.recordNode(result, err)
		return result, err
	case *path.NestLoop, *path.MergeJoin, *path.HashJoin:
		log.Tracef("materializing join node %T", n)
		result, err := m.createJoinPlan(p, log)
		m.recordNode(result, err)
		return result, err
	case *path.Append:
		log.Trace("materializing append node")
		result, err := m.createAppendPlan(n, log)
		m.recordNode(result, err)
		return result, err
	case *path.Result:
		log.Trace("materializing result node")
		result, err := m.createResultPlan(n, log)
		m.recordNode(result, err)
		return result, err
	case *path.Material:
		log.Trace("materializing material node")
		result, err := m.createMaterialPlan(n, log)
		m.recordNode(result, err)
		return result, err
	default:
		return nil, planerrors.ErrUnknownPathVariant.New(p)
	}
}

// recordNode labels a Prometheus counter by the built node's concrete Go
// type, a cheap stand-in for the original's variant tag. err is checked so
// a failed specializer (which may still return a typed nil, e.g.
// (*plan.IndexScan)(nil)) is never miscounted as a built node.
func (m *Materializer) recordNode(result plan.Plan, err error) {
	if err != nil || result == nil {
		return
	}
	m.metrics().RecordNode(fmt.Sprintf("%T", result))
}

func (m *Materializer) logger() *logrus.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return logrus.StandardLogger()
}

func (m *Materializer) metrics() *telemetry.Metrics {
	if m.Metrics != nil {
		return m.Metrics
	}
	return telemetry.NewMetrics()
}
