package interview

// Question text shown to the user at each interview step.
const (
	msgIntro = "相続人の確定に必要な情報をお伺いします。\n" +
		"まず、亡くなられた方（被相続人）についてお聞かせください。"
	msgDecedentName      = "被相続人のお名前を教えてください。"
	msgDecedentDeathDate = "被相続人が亡くなられた日を教えてください。（例: 2023-10-03、令和5年10月3日）"
	msgDecedentBirthDate = "被相続人の生年月日を教えてください。不明な場合は「不明」とお答えください。"
	msgSpouseQuestion    = "被相続人に配偶者はいらっしゃいますか？（はい/いいえ）"
	msgSpouseInfo        = "配偶者のお名前と、ご存命かどうかを教えてください。"
	msgChildrenQuestion  = "被相続人にお子様はいらっしゃいますか？（はい/いいえ）"
	msgChildrenCount     = "お子様は何人いらっしゃいますか？"
	msgParentsQuestion   = "被相続人のご両親（または祖父母）でご存命の方はいらっしゃいますか？（はい/いいえ）"
	msgParentInfo        = "ご存命の直系尊属のお名前を教えてください。複数いらっしゃる場合は読点で区切ってください。"
	msgSiblingsQuestion  = "被相続人にご兄弟姉妹はいらっしゃいますか？（はい/いいえ）"
	msgSiblingInfo       = "ご兄弟姉妹のお名前を教えてください。複数いらっしゃる場合は読点で区切ってください。"
	msgRenunciation      = "相続放棄をされた方はいらっしゃいますか？（はい/いいえ）"
	msgRenouncedWho      = "相続放棄をされた方のお名前を教えてください。"
	msgConfirmation      = "以下の内容でよろしいですか？（はい/いいえ）\n\n"
	msgCompleted         = "ありがとうございました。相続分の計算を開始します。"
	msgCorrection        = "修正が必要な項目を教えてください。最初からやり直す場合は「やり直し」とお答えください。"
	msgBadDate           = "申し訳ございません。日付の形式が読み取れませんでした。もう一度お答えください。"
	msgBadCount          = "申し訳ございません。数字でご入力ください。"
	msgAlreadyDone       = "インタビューは完了しています。"
)

// Default extraction prompts. Config may override them.
const (
	defaultPersonExtractionPrompt = `次の文章から人物情報を抽出し、JSONのみを返してください。
フィールド: name (氏名), alive (存命なら true), death_date (死亡日 YYYY-MM-DD、不明なら空文字)。

文章: %s

JSON:`

	defaultYesNoPrompt = `次の回答が肯定なら {"answer": true}、否定なら {"answer": false} をJSONのみで返してください。

回答: %s

JSON:`
)
