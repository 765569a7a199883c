package decodeddnn

// 枚举表来自数据提供方发布的最终版本：6 个被试、两个网络各自的层列表、
// 50 张刺激图像与三种取数模式。顺序即默认展开顺序。
var subjects = []string{"S1", "S2", "S3", "S4", "S5", "Average"}

var netOrder = []string{"AlexNet", "VGG19"}

var netLayers = map[string][]string{
	"AlexNet": {
		"conv1", "conv2", "conv3", "conv4", "conv5",
		"fc6", "fc7", "fc8",
		"norm1", "norm2",
		"pool1", "pool2", "pool5",
		"prob",
		"relu1", "relu2", "relu3", "relu4", "relu5", "relu6", "relu7",
	},
	"VGG19": {
		"conv1_1", "conv1_2", "conv2_1", "conv2_2",
		"conv3_1", "conv3_2", "conv3_3", "conv3_4",
		"conv4_1", "conv4_2", "conv4_3", "conv4_4",
		"conv5_1", "conv5_2", "conv5_3", "conv5_4",
		"drop6", "drop7",
		"fc6", "fc7", "fc8",
		"pool1", "pool2", "pool3", "pool4", "pool5",
		"prob",
		"relu1_1", "relu1_2", "relu2_1", "relu2_2",
		"relu3_1", "relu3_2", "relu3_3", "relu3_4",
		"relu4_1", "relu4_2", "relu4_3", "relu4_4",
		"relu5_1", "relu5_2", "relu5_3", "relu5_4",
		"relu6", "relu7",
	},
}

var images = []string{
	"n01443537_22563", "n01621127_19020", "n01677366_18182", "n01846331_17038", "n01858441_11077",
	"n01943899_24131", "n01976957_13223", "n02071294_46212", "n02128385_20264", "n02139199_10398",
	"n02190790_15121", "n02274259_24319", "n02416519_12793", "n02437136_12836", "n02437971_5013",
	"n02690373_7713", "n02797295_15411", "n02824058_18729", "n02882301_14188", "n02916179_24850",
	"n02950256_22949", "n02951358_23759", "n03064758_38750", "n03122295_31279", "n03124170_13920",
	"n03237416_58334", "n03272010_11001", "n03345837_12501", "n03379051_8496", "n03452741_24622",
	"n03455488_28622", "n03482252_22530", "n03495258_9895", "n03584254_5040", "n03626115_19498",
	"n03710193_22225", "n03716966_28524", "n03761084_43533", "n03767745_109", "n03941684_21672",
	"n03954393_10038", "n04210120_9062", "n04252077_10859", "n04254777_16338", "n04297750_25624",
	"n04387400_16693", "n04507155_21299", "n04533802_19479", "n04554684_53399", "n04572121_3262",
}

var modes = []string{"decoded", "accuracy", "rank"}

// payloadVars 是解析 .mat/.h5 文件时按序探测的变量名。
var payloadVars = []string{"feat", "accuracy", "rank"}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
