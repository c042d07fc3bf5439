package shareanalyzer

import (
	"github.com/uforiaio/network-share-test-helper/internal/domain"
	"github.com/uforiaio/network-share-test-helper/internal/ports"
)

// Packet is one decoded network observation flowing into the analysis
// pipeline. It mirrors internal/domain.Packet but is exported so custom
// collectors can reference it.
type Packet = domain.Packet

// Report is the finished output of one analysis pass.
type Report = domain.Report

// Snapshot holds the computed statistics of one capture window.
type Snapshot = domain.Snapshot

// Issue is one detected problem.
type Issue = domain.Issue

// Recommendation is one tuning suggestion.
type Recommendation = domain.Recommendation

// Anomaly is one statistical outlier.
type Anomaly = domain.Anomaly

// Prediction is the trend forecast of one pass.
type Prediction = domain.Prediction

// NetworkFacts carries host-side context evaluated by the rule checks.
type NetworkFacts = domain.NetworkFacts

// ProtocolInfo carries negotiated share-protocol facts.
type ProtocolInfo = domain.ProtocolInfo

// Collector streams packets from any capture source (pcap, trace files,
// simulators) into the pipeline.
type Collector = ports.Collector

// FactsProvider supplies host network facts.
type FactsProvider = ports.FactsProvider

// OutlierModel flags anomalous feature rows.
type OutlierModel = ports.OutlierModel

// TextGenerator produces trend predictions from prompts.
type TextGenerator = ports.TextGenerator

// ReportSink consumes finished reports.
type ReportSink = ports.ReportSink

// Observability emits metrics and logs about the pipeline.
type Observability = ports.Observability

// Field is a structured log field used by Observability implementations.
type Field = ports.Field
