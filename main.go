package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/bdds/bdds/internal/config"
	"github.com/bdds/bdds/internal/dataset"
	"github.com/bdds/bdds/internal/engine"
	"github.com/bdds/bdds/internal/logging"
	"github.com/bdds/bdds/internal/mat"
	"github.com/bdds/bdds/internal/version"

	// 注册全部数据集适配器。
	_ "github.com/bdds/bdds/internal/dataset/decodeddnn"
	_ "github.com/bdds/bdds/internal/dataset/god"
	_ "github.com/bdds/bdds/internal/dataset/handshape"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool
	listOnly    bool

	datasetKey  string
	downloadAll bool
	dataStore   string

	// selection 维度，未给出的维度交由适配器取默认值。
	mode    string
	subject string
	net     string
	layer   string
	image   string

	returnDict bool
	forceList  bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	if opts.listOnly {
		printDatasets()
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}
	if opts.dataStore != "" {
		cfg.Global.DataStore = opts.dataStore
	}

	logger, err := logging.InitLogger(cfg.Global)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["datasets"] = config.DatasetNames(cfg.Datasets)
		fields["datastore"] = cfg.Global.DataStore
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	if opts.datasetKey == "" {
		fmt.Fprintln(stdErr, "需要 -dataset 指定数据集，-list 查看可用值")
		return 2
	}

	eng, err := engine.ForDataset(cfg, opts.datasetKey, logger)
	if err != nil {
		fmt.Fprintf(stdErr, "构建取数引擎失败: %v\n", err)
		return 1
	}

	fields := logging.DatasetFields("startup", opts.datasetKey)
	fields["configPath"] = opts.configPath
	fields["datastore"] = cfg.Global.DataStore
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	ctx := context.Background()

	if opts.downloadAll {
		if err := eng.DownloadAll(ctx); err != nil {
			fmt.Fprintf(stdErr, "批量预取失败: %v\n", err)
			return 1
		}
		return 0
	}

	sel := buildSelection(opts)
	result, err := eng.Get(ctx, sel, engine.Options{
		ReturnDict: opts.returnDict,
		ForceList:  opts.forceList,
	})
	if err != nil {
		fmt.Fprintf(stdErr, "取数失败: %v\n", err)
		return 1
	}

	if err := printResult(result); err != nil {
		fmt.Fprintf(stdErr, "输出结果失败: %v\n", err)
		return 1
	}
	return 0
}

// buildSelection 把给出的维度标志收进 selection，空标志不占维度。
func buildSelection(opts cliOptions) dataset.Selection {
	sel := dataset.Selection{}
	for dim, value := range map[string]string{
		"mode":    opts.mode,
		"subject": opts.subject,
		"net":     opts.net,
		"layer":   opts.layer,
		"image":   opts.image,
	} {
		if value != "" {
			sel[dim] = []string{value}
		}
	}
	return sel
}

// printResult 以 JSON 摘要打印取数结果，stdout 只承载结果本身。
func printResult(result interface{}) error {
	enc := json.NewEncoder(stdOut)
	enc.SetIndent("", "  ")
	return enc.Encode(summarize(result))
}

// summarize 把载荷替换为维度摘要，避免把整块数值矩阵倾倒到终端。
func summarize(result interface{}) interface{} {
	switch v := result.(type) {
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = summarize(item)
		}
		return out
	case []engine.Record:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = summarize(item)
		}
		return out
	case engine.Record:
		out := map[string]interface{}{}
		for key, value := range v {
			if key == "data" {
				out[key] = summarize(value)
			} else {
				out[key] = value
			}
		}
		return out
	case *mat.Array:
		return map[string]interface{}{"name": v.Name, "dims": v.Dims}
	case mat.File:
		out := map[string]interface{}{}
		for name, arr := range v {
			out[name] = summarize(arr)
		}
		return out
	case interface{ Rows() int }:
		return map[string]interface{}{"rows": v.Rows()}
	default:
		return fmt.Sprintf("%T", v)
	}
}

func printDatasets() {
	for _, reg := range dataset.List() {
		fmt.Fprintf(stdOut, "%-12s %s\n", reg.Meta.Key, reg.Meta.Description)
	}
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("bdds", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts cliOptions
	var configFlag string

	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./config.toml，可被 BDDS_CONFIG 覆盖）")
	fs.BoolVar(&opts.checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&opts.showVersion, "version", false, "显示版本信息")
	fs.BoolVar(&opts.listOnly, "list", false, "列出可用数据集后退出")

	fs.StringVar(&opts.datasetKey, "dataset", "", "数据集键值（见 -list）")
	fs.BoolVar(&opts.downloadAll, "download-all", false, "批量预取整个数据集，跳过确认")
	fs.StringVar(&opts.dataStore, "datastore", "", "覆盖配置中的 datastore 根目录")

	fs.StringVar(&opts.mode, "mode", "", "selection: mode 维度取值")
	fs.StringVar(&opts.subject, "subject", "", "selection: subject 维度取值")
	fs.StringVar(&opts.net, "net", "", "selection: net 维度取值")
	fs.StringVar(&opts.layer, "layer", "", "selection: layer 维度取值")
	fs.StringVar(&opts.image, "image", "", "selection: image 维度取值")

	fs.BoolVar(&opts.returnDict, "return-dict", false, "输出带标识维度的记录")
	fs.BoolVar(&opts.forceList, "force-list", false, "单元素结果不塌缩")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}

	path := os.Getenv("BDDS_CONFIG")
	if configFlag != "" {
		path = configFlag
	}
	if path == "" {
		path = "config.toml"
	}
	opts.configPath = path

	return opts, nil
}
