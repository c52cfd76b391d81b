package themefiles

// 体积阈值 (左闭右开)
//
//	< 1 MiB          正常写入
//	[1 MiB, 5 MiB)   写入，附带 warning_1mb
//	[5 MiB, 25 MiB)  拒绝，rejected_5mb
//	>= 25 MiB        拒绝，exceeded_25mb，不会进入存在性检查
const (
	WarnThreshold   = 1 * MiB
	RejectThreshold = 5 * MiB
	HardLimit       = 25 * MiB
)

// validationSize 取声明长度和实际数据长度中较大的那个
func validationSize(c FileConfig) int64 {
	return max(c.File.Length, int64(len(c.FileData)))
}

// ValidateFile 按体积分类。
// 体积不只看声明的 File.Length：实际 FileData 更大时以实际长度为准，
// 所以 Length 为 0 但带着 6 MiB 数据的文件同样会被拒绝。
// 返回的 warning 为 nil 表示没有需要报告的问题；store 表示是否继续写入。
func ValidateFile(c FileConfig) (warning *FileWarning, store bool) {
	size := validationSize(c)

	var reason WarningReason
	action := ActionStored
	switch {
	case size >= HardLimit:
		reason, action = ReasonExceeded25MB, ActionRejected
	case size >= RejectThreshold:
		reason, action = ReasonRejected5MB, ActionRejected
	case size >= WarnThreshold:
		reason = ReasonWarning1MB
	default:
		return nil, true
	}

	return &FileWarning{
		Hash:     c.Hash,
		FilePath: c.FilePath,
		Size:     size,
		Reason:   reason,
		Action:   action,
	}, action == ActionStored
}
